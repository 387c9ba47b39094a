package scan

// Built-in Windows principals excluded from the access-control listing.
var windowsSystemAccounts = map[string]struct{}{
	"administrator":      {},
	"defaultaccount":     {},
	"guest":              {},
	"wdagutilityaccount": {},
	"defaultuser0":       {},
	"system":             {},
	"local service":      {},
	"network service":    {},
	"krbtgt":             {},
	"defaultapppool":     {},
	"aspnet":             {},
	"iusr":               {},
	"iwam":               {},
	"homegroup":          {},
	"sshd":               {},
	"nt authority":       {},
	"everyone":           {},
	"iis_iusrs":          {},
	"helpassistant":      {},
}
