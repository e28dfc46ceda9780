package calcsolve

// Template is a ready-made question with a short label.
type Template struct {
	Label    string
	Question string
}

// Templates lists sample questions, one per supported form.
var Templates = []Template{
	{"∫ x² dx", "integrate x^2 dx"},
	{"∫ sin(x) dx", "integrate sin(x) dx"},
	{"d/dx x³", "differentiate x^3"},
	{"∫₀¹ x² dx", "integrate x^2 from 0 to 1"},
	{"∂/∂y x²y", "differentiate x^2*y with respect to y"},
	{"sin(π/2)", "sin(pi/2)"},
	{"√16", "evaluate sqrt(16)"},
}
