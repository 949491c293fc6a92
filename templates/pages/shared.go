package pages

// detailRow is one label/value pair of a detail list; Key is a translation key
type detailRow struct {
	Key   string
	Value string
}

// kpi is one headline figure; Key is a translation key
type kpi struct {
	Key   string
	Value string
}
