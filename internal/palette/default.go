package palette

// defaultEntries are the dye colours used when no overrides are configured.
var defaultEntries = []Entry{
	{Code: "K", Name: "black", RGB: RGB{R: 16, G: 16, B: 16}},
	{Code: "W", Name: "white", RGB: RGB{R: 232, G: 232, B: 232}},
	{Code: "R", Name: "red", RGB: RGB{R: 200, G: 0, B: 0}},
	{Code: "DR", Name: "dark red", RGB: RGB{R: 136, G: 0, B: 0}},
	{Code: "G", Name: "green", RGB: RGB{R: 0, G: 104, B: 24}},
	{Code: "DG", Name: "dark green", RGB: RGB{R: 0, G: 64, B: 16}},
	{Code: "LG", Name: "light green", RGB: RGB{R: 102, G: 160, B: 72}},
	{Code: "B", Name: "blue", RGB: RGB{R: 0, G: 48, B: 160}},
	{Code: "DB", Name: "dark blue", RGB: RGB{R: 0, G: 24, B: 72}},
	{Code: "LB", Name: "light blue", RGB: RGB{R: 76, G: 140, B: 216}},
	{Code: "Y", Name: "yellow", RGB: RGB{R: 232, G: 192, B: 0}},
	{Code: "O", Name: "orange", RGB: RGB{R: 224, G: 96, B: 0}},
	{Code: "P", Name: "purple", RGB: RGB{R: 104, G: 0, B: 128}},
	{Code: "A", Name: "grey", RGB: RGB{R: 128, G: 128, B: 128}},
	{Code: "T", Name: "tan", RGB: RGB{R: 160, G: 120, B: 80}},
}

// Default returns the built-in palette.
func Default() *Palette {
	p, err := New(defaultEntries)
	if err != nil {
		panic("palette: invalid built-in table: " + err.Error())
	}
	return p
}
