package diagfmt

// PrettyOpts управляет человекочитаемым выводом диагностик.
type PrettyOpts struct {
	Color bool
	// Context — сколько строк исходника показывать вокруг span (0 — не показывать).
	Context int
}
