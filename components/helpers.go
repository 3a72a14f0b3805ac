package components

import "html/template"

var alertClasses = map[string]string{
	"error":   "alert-error",
	"warning": "alert-warning",
	"success": "alert-success",
}

// alertClass maps a msg_level context value to its stylesheet class. Pages
// rendered without a level fall back to the neutral info style.
func alertClass(level any) string {
	s, _ := level.(string)
	if class, ok := alertClasses[s]; ok {
		return class
	}
	return "alert-info"
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"alertClass": alertClass,
	}
}
