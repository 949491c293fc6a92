package components

type navItem struct {
	href string
	key  string
}

var navItems = []navItem{
	{"/claims", "nav.claims"},
	{"/policies", "nav.policies"},
	{"/activities", "nav.activities"},
	{"/reports", "nav.reports"},
}
