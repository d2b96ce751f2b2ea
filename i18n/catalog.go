package i18n

var en = map[string]string{
	"app_title":     "Shop",
	"nav_products":  "Products",
	"nav_shops":     "Shops",
	"nav_invoices":  "Invoices",
	"nav_sync":      "Sync",
	"nav_settings":  "Settings",
	"online":        "Online",
	"offline":       "Offline",
	"search":        "Search…",
	"add":           "Add",
	"edit":          "Edit",
	"delete":        "Delete",
	"save":          "Save",
	"cancel":        "Cancel",
	"close":         "Close",
	"view":          "View",
	"actions":       "Actions",
	"confirm_title": "Confirm",
	"confirm_text":  "Delete \"%s\"? This cannot be undone.",
	"yes_delete":    "Yes, delete",

	"name":  "Name",
	"price": "Price",
	"notes": "Notes",
	"phone": "Phone",
	"shop":  "Shop",
	"qty":   "Qty",
	"total": "Total",
	"date":  "Date",
	"items": "Items",

	"product":        "Product",
	"new_product":    "New product",
	"edit_product":   "Edit product",
	"no_products":    "No products yet.",
	"new_shop":       "New shop",
	"edit_shop":      "Edit shop",
	"no_shops":       "No shops yet.",
	"shop_invoices":  "Invoices for this shop",
	"new_invoice":    "New invoice",
	"edit_invoice":   "Edit invoice",
	"invoice_detail": "Invoice",
	"no_invoices":    "No invoices yet.",
	"add_line":       "Add line",
	"remove":         "Remove",
	"recalc":         "Recalculate",
	"select_shop":    "Select a shop",
	"select_product": "Select a product",
	"unknown_line":   "(unknown product)",
	"products_count": "Products",
	"shops_count":    "Shops",
	"invoices_count": "Invoices",
	"revenue":        "Revenue",
	"no_results":     "Nothing matches your search.",
	"deleted_shop":   "(deleted shop)",
	"invoice_no":     "No.",
	"export_json":    "Export JSON",

	"sync_title":            "GitHub Gist sync",
	"github_token":          "GitHub token",
	"token_saved":           "A token is saved on this device. Leave empty to reuse it.",
	"gist_id":               "Gist ID",
	"create_gist":           "Create new gist",
	"update_gist":           "Upload to gist",
	"pull_gist":             "Download from gist",
	"pull_warning":          "Downloading replaces all local data.",
	"forget_credentials":    "Forget token and gist",
	"credentials_forgotten": "Token and gist ID removed.",
	"last_sync":             "Last sync",
	"never_synced":          "Never synced",
	"unsynced_changes":      "Local changes not uploaded yet.",
	"in_sync":               "No local changes since the last sync.",
	"sync_running_create":   "Creating gist…",
	"sync_running_update":   "Uploading…",
	"sync_running_pull":     "Downloading…",
	"sync_created":          "Gist created:",
	"sync_updated":          "Gist updated:",
	"sync_pulled":           "Data downloaded from gist:",
	"sync_in_progress":      "This sync is already running.",
	"sync_no_token":         "Enter a GitHub token first.",
	"sync_no_gist_id":       "Enter a gist ID first.",
	"sync_file_missing":     "The gist has no shop_data.json file.",
	"sync_invalid_content":  "The gist file is not valid shop data:",
	"sync_rejected":         "GitHub refused the request:",
	"sync_timeout":          "GitHub did not answer in time.",
	"sync_failed":           "Sync failed:",

	"settings_title":    "Settings",
	"language":          "Language",
	"theme":             "Theme",
	"theme_system":      "System",
	"theme_light":       "Light",
	"theme_dark":        "Dark",
	"lang_en":           "English",
	"lang_ar":           "العربية",
	"prefs_saved":       "Preferences saved.",
	"clear_all":         "Clear all data",
	"clear_all_confirm": "Delete every product, shop and invoice on this device?",
	"data_cleared":      "All local data was deleted.",

	"saved":                "Saved.",
	"deleted":              "Deleted.",
	"save_failed":          "Could not save changes.",
	"not_found":            "Not found",
	"required":             "Required",
	"must_not_be_negative": "Must not be negative",
	"must_be_positive":     "Must be greater than zero",
	"unknown_product":      "Remove lines whose product no longer exists",
	"invalid_number":       "Invalid number",
	"validation_failed":    "Please fix the highlighted fields.",
	"shop_id":              "Shop",
	"new_product_id":       "Product",
	"new_qty":              "Qty",
}

var ar = map[string]string{
	"app_title":     "المتجر",
	"nav_products":  "المنتجات",
	"nav_shops":     "المحلات",
	"nav_invoices":  "الفواتير",
	"nav_sync":      "المزامنة",
	"nav_settings":  "الإعدادات",
	"online":        "متصل",
	"offline":       "غير متصل",
	"search":        "بحث…",
	"add":           "إضافة",
	"edit":          "تعديل",
	"delete":        "حذف",
	"save":          "حفظ",
	"cancel":        "إلغاء",
	"close":         "إغلاق",
	"view":          "عرض",
	"actions":       "إجراءات",
	"confirm_title": "تأكيد",
	"confirm_text":  "حذف \"%s\"؟ لا يمكن التراجع.",
	"yes_delete":    "نعم، احذف",

	"name":  "الاسم",
	"price": "السعر",
	"notes": "ملاحظات",
	"phone": "الهاتف",
	"shop":  "المحل",
	"qty":   "الكمية",
	"total": "المجموع",
	"date":  "التاريخ",
	"items": "الأصناف",

	"product":        "المنتج",
	"new_product":    "منتج جديد",
	"edit_product":   "تعديل المنتج",
	"no_products":    "لا توجد منتجات بعد.",
	"new_shop":       "محل جديد",
	"edit_shop":      "تعديل المحل",
	"no_shops":       "لا توجد محلات بعد.",
	"shop_invoices":  "فواتير هذا المحل",
	"new_invoice":    "فاتورة جديدة",
	"edit_invoice":   "تعديل الفاتورة",
	"invoice_detail": "فاتورة",
	"no_invoices":    "لا توجد فواتير بعد.",
	"add_line":       "إضافة سطر",
	"remove":         "إزالة",
	"recalc":         "إعادة الحساب",
	"select_shop":    "اختر محلاً",
	"select_product": "اختر منتجاً",
	"unknown_line":   "(منتج غير معروف)",
	"products_count": "المنتجات",
	"shops_count":    "المحلات",
	"invoices_count": "الفواتير",
	"revenue":        "الإيرادات",
	"no_results":     "لا نتائج مطابقة.",
	"deleted_shop":   "(محل محذوف)",
	"invoice_no":     "رقم",
	"export_json":    "تصدير JSON",

	"sync_title":            "المزامنة مع GitHub Gist",
	"github_token":          "رمز GitHub",
	"token_saved":           "يوجد رمز محفوظ على هذا الجهاز. اتركه فارغاً لاستخدامه.",
	"gist_id":               "معرف Gist",
	"create_gist":           "إنشاء Gist جديد",
	"update_gist":           "رفع إلى Gist",
	"pull_gist":             "تنزيل من Gist",
	"pull_warning":          "التنزيل يستبدل كل البيانات المحلية.",
	"forget_credentials":    "نسيان الرمز والمعرف",
	"credentials_forgotten": "تم حذف الرمز والمعرف.",
	"last_sync":             "آخر مزامنة",
	"never_synced":          "لم تتم المزامنة بعد",
	"unsynced_changes":      "توجد تغييرات محلية لم ترفع بعد.",
	"in_sync":               "لا تغييرات منذ آخر مزامنة.",
	"sync_running_create":   "جاري إنشاء Gist…",
	"sync_running_update":   "جاري الرفع…",
	"sync_running_pull":     "جاري التنزيل…",
	"sync_created":          "تم إنشاء Gist:",
	"sync_updated":          "تم تحديث Gist:",
	"sync_pulled":           "تم تنزيل البيانات من Gist:",
	"sync_in_progress":      "هذه المزامنة قيد التنفيذ بالفعل.",
	"sync_no_token":         "أدخل رمز GitHub أولاً.",
	"sync_no_gist_id":       "أدخل معرف Gist أولاً.",
	"sync_file_missing":     "لا يحتوي Gist على الملف shop_data.json.",
	"sync_invalid_content":  "ملف Gist ليس بيانات متجر صالحة:",
	"sync_rejected":         "رفض GitHub الطلب:",
	"sync_timeout":          "لم يستجب GitHub في الوقت المحدد.",
	"sync_failed":           "فشلت المزامنة:",

	"settings_title":    "الإعدادات",
	"language":          "اللغة",
	"theme":             "المظهر",
	"theme_system":      "حسب النظام",
	"theme_light":       "فاتح",
	"theme_dark":        "داكن",
	"lang_en":           "English",
	"lang_ar":           "العربية",
	"prefs_saved":       "تم حفظ التفضيلات.",
	"clear_all":         "مسح كل البيانات",
	"clear_all_confirm": "حذف كل المنتجات والمحلات والفواتير من هذا الجهاز؟",
	"data_cleared":      "تم حذف كل البيانات المحلية.",

	"saved":                "تم الحفظ.",
	"deleted":              "تم الحذف.",
	"save_failed":          "تعذر حفظ التغييرات.",
	"not_found":            "غير موجود",
	"required":             "مطلوب",
	"must_not_be_negative": "يجب ألا تكون القيمة سالبة",
	"must_be_positive":     "يجب أن تكون القيمة أكبر من صفر",
	"unknown_product":      "احذف الأسطر التي لم يعد منتجها موجوداً",
	"invalid_number":       "رقم غير صالح",
	"validation_failed":    "يرجى تصحيح الحقول المحددة.",
	"shop_id":              "المحل",
	"new_product_id":       "المنتج",
	"new_qty":              "الكمية",
}
