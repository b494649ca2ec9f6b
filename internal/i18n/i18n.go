// Package i18n is a static key-lookup dictionary for the dashboard UI
// strings. Unknown languages and keys fall back to English.
package i18n

const DefaultLanguage = "en"

// Language describes one selectable UI language.
type Language struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"nativeName"`
}

var languages = []Language{
	{Code: "en", Name: "English", NativeName: "English"},
	{Code: "mk", Name: "Macedonian", NativeName: "Македонски"},
	{Code: "sq", Name: "Albanian", NativeName: "Shqip"},
}

var translations = map[string]map[string]string{
	"en": {
		"welcome":        "Welcome",
		"workStatus":     "Work Status",
		"startWork":      "Start Work",
		"endWork":        "End Work",
		"takeBreak":      "Take Break",
		"resumeWork":     "Resume Work",
		"takePhoto":      "Take Photo",
		"selectVehicle":  "Select Vehicle",
		"workingSince":   "Working since",
		"onBreak":        "On break",
		"completed":      "Completed",
		"totalHours":     "Total Hours",
		"daysWorked":     "Days Worked",
		"activeWorkers":  "Active Workers",
		"employees":      "Employees",
		"vehicles":       "Vehicles",
		"materials":      "Materials",
		"files":          "Files",
		"reports":        "Reports",
		"loginButton":    "Login",
		"logout":         "Logout",
		"invalidLogin":   "Invalid email or password",
		"rememberMe":     "Remember me",
		"locationError":  "Location not available",
		"workDaySummary": "Work Day Summary",
	},
	"mk": {
		"welcome":       "Добредојде",
		"workStatus":    "Работен статус",
		"startWork":     "Започни работа",
		"endWork":       "Заврши работа",
		"takeBreak":     "Пауза",
		"resumeWork":    "Продолжи со работа",
		"takePhoto":     "Фотографирај",
		"selectVehicle": "Избери возило",
		"onBreak":       "На пауза",
		"completed":     "Завршено",
		"totalHours":    "Вкупно часови",
		"daysWorked":    "Работни денови",
		"activeWorkers": "Активни работници",
		"employees":     "Вработени",
		"vehicles":      "Возила",
		"materials":     "Материјали",
		"files":         "Датотеки",
		"reports":       "Извештаи",
		"loginButton":   "Најава",
		"logout":        "Одјава",
		"invalidLogin":  "Погрешна е-пошта или лозинка",
		"rememberMe":    "Запомни ме",
		"locationError": "Локацијата не е достапна",
	},
	"sq": {
		"welcome":       "Mirë se vini",
		"workStatus":    "Statusi i punës",
		"startWork":     "Fillo punën",
		"endWork":       "Përfundo punën",
		"takeBreak":     "Pushim",
		"resumeWork":    "Vazhdo punën",
		"takePhoto":     "Bëj një foto",
		"selectVehicle": "Zgjidh automjetin",
		"onBreak":       "Në pushim",
		"completed":     "Përfunduar",
		"totalHours":    "Orë gjithsej",
		"daysWorked":    "Ditë pune",
		"activeWorkers": "Punëtorë aktivë",
		"employees":     "Punonjësit",
		"vehicles":      "Automjetet",
		"materials":     "Materialet",
		"files":         "Skedarët",
		"reports":       "Raportet",
		"loginButton":   "Hyrje",
		"logout":        "Dalje",
		"invalidLogin":  "Email ose fjalëkalim i pasaktë",
		"rememberMe":    "Më mbaj mend",
		"locationError": "Vendndodhja nuk është e disponueshme",
	},
}

// Languages lists the selectable languages.
func Languages() []Language {
	return languages
}

// Supported reports whether a language code has a dictionary.
func Supported(code string) bool {
	_, ok := translations[code]
	return ok
}

// T resolves a key in the given language, falling back to English and
// finally to the key itself.
func T(lang, key string) string {
	if dict, ok := translations[lang]; ok {
		if v, ok := dict[key]; ok {
			return v
		}
	}

	if v, ok := translations[DefaultLanguage][key]; ok {
		return v
	}

	return key
}

// Dictionary returns the full translation map for a language, merged
// over the English defaults.
func Dictionary(lang string) map[string]string {
	merged := make(map[string]string, len(translations[DefaultLanguage]))
	for k, v := range translations[DefaultLanguage] {
		merged[k] = v
	}
	if lang == DefaultLanguage {
		return merged
	}
	for k, v := range translations[lang] {
		merged[k] = v
	}

	return merged
}
