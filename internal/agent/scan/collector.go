package scan

import (
	"context"
	"fmt"
	stdnet "net"
	"os"
	"os/exec"
	"os/user"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/host"
	gnet "github.com/shirou/gopsutil/v4/net"

	"github.com/aricainsights/toucan/internal/logging"
)

const commandTimeout = 15 * time.Second

// Runner executes an external command and returns its combined stdout.
// It exists as a seam so collectors can be tested without shelling out.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	return exec.CommandContext(ctx, name, args...).Output()
}

// Collector assembles a Report from the local machine.
type Collector struct {
	run        Runner
	goos       string
	passwdPath string
	log        logging.Logger
}

func NewCollector(log logging.Logger) *Collector {
	return &Collector{
		run:        execRunner,
		goos:       runtime.GOOS,
		passwdPath: "/etc/passwd",
		log:        log,
	}
}

// Collect gathers every section of the report. Individual probes that fail
// degrade to their "unable to determine" value instead of failing the scan.
func (c *Collector) Collect(ctx context.Context) (*Report, error) {
	r := &Report{CollectedAt: time.Now().UTC()}

	c.collectOSInfo(ctx, r)
	c.collectFirewall(ctx, r)
	c.collectAntivirus(ctx, r)
	c.collectDiskEncryption(ctx, r)
	c.collectUserAccounts(ctx, r)
	c.collectNetwork(ctx, r)

	return r, nil
}

func (c *Collector) collectOSInfo(ctx context.Context, r *Report) {
	r.OSPlatform = c.goos

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		c.log.Warn(ctx, "os info probe failed", "error", err)
		r.OSName = c.goos
		return
	}
	r.OSName = strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
	r.OSVersion = info.KernelVersion
}

func (c *Collector) collectFirewall(ctx context.Context, r *Report) {
	r.FirewallStatus = "Unknown"

	switch c.goos {
	case "windows":
		out, err := c.run(ctx, "netsh", "advfirewall", "show", "currentprofile", "state")
		if err != nil {
			r.FirewallStatus = "Unable to determine"
			return
		}
		if strings.Contains(strings.ToUpper(string(out)), "ON") {
			r.FirewallEnabled = true
			r.FirewallStatus = "Windows Firewall Active"
		} else {
			r.FirewallStatus = "Windows Firewall Disabled"
		}

	case "darwin":
		out, err := c.run(ctx, "/usr/libexec/ApplicationFirewall/socketfilterfw", "--getglobalstate")
		if err != nil {
			r.FirewallStatus = "Unable to determine"
			return
		}
		if strings.Contains(strings.ToLower(string(out)), "enabled") {
			r.FirewallEnabled = true
			r.FirewallStatus = "macOS Firewall Enabled"
		} else {
			r.FirewallStatus = "macOS Firewall Disabled"
		}

	case "linux":
		out, err := c.run(ctx, "ufw", "status")
		if err == nil {
			if strings.Contains(strings.ToLower(string(out)), "active") {
				r.FirewallEnabled = true
				r.FirewallStatus = "UFW Firewall Active"
			} else {
				r.FirewallStatus = "UFW Firewall Inactive"
			}
			return
		}
		if _, err := c.run(ctx, "iptables", "-L", "-n"); err == nil {
			r.FirewallEnabled = true
			r.FirewallStatus = "iptables configured"
			return
		}
		r.FirewallStatus = "No firewall detected"
	}
}

var linuxAVTools = []struct {
	binary string
	name   string
}{
	{"clamav", "ClamAV"},
	{"sophos", "Sophos"},
	{"crowdstrike", "CrowdStrike Falcon"},
}

func (c *Collector) collectAntivirus(ctx context.Context, r *Report) {
	r.AntivirusStatus = "Not detected"

	switch c.goos {
	case "windows":
		out, err := c.run(ctx, "reg", "query",
			`HKLM\SOFTWARE\Microsoft\Windows Defender\Real-Time Protection`,
			"/v", "DisableRealtimeMonitoring")
		if err != nil {
			// Value absent usually means monitoring was never disabled.
			r.AntivirusInstalled = true
			r.AntivirusName = "Windows Defender"
			r.AntivirusStatus = "Real-time protection enabled"
			return
		}
		if strings.Contains(string(out), "0x0") {
			r.AntivirusInstalled = true
			r.AntivirusName = "Windows Defender"
			r.AntivirusStatus = "Real-time protection enabled"
		} else {
			r.AntivirusStatus = "Windows Defender disabled"
		}

	case "darwin":
		r.AntivirusInstalled = true
		r.AntivirusName = "XProtect (Built-in)"
		r.AntivirusStatus = "macOS built-in protection active"

	case "linux":
		for _, tool := range linuxAVTools {
			if _, err := c.run(ctx, "which", tool.binary); err == nil {
				r.AntivirusInstalled = true
				r.AntivirusName = tool.name
				r.AntivirusStatus = tool.name + " installed"
				return
			}
		}
		r.AntivirusStatus = "No antivirus detected"
	}
}

func (c *Collector) collectDiskEncryption(ctx context.Context, r *Report) {
	switch c.goos {
	case "windows":
		out, err := c.run(ctx, "manage-bde", "-status", "C:")
		if err != nil {
			return
		}
		s := string(out)
		if strings.Contains(s, "Protection On") || strings.Contains(s, "Percentage Encrypted") {
			r.DiskEncryptionEnabled = true
			r.DiskEncryptionMethod = "BitLocker"
		}

	case "darwin":
		out, err := c.run(ctx, "fdesetup", "status")
		if err != nil {
			return
		}
		if strings.Contains(string(out), "FileVault is On") {
			r.DiskEncryptionEnabled = true
			r.DiskEncryptionMethod = "FileVault"
		}

	case "linux":
		out, err := c.run(ctx, "lsblk", "-o", "NAME,TYPE,MOUNTPOINT")
		if err != nil {
			return
		}
		if strings.Contains(string(out), "crypt") {
			r.DiskEncryptionEnabled = true
			r.DiskEncryptionMethod = "LUKS/dm-crypt"
		}
	}
}

var nonLoginShells = map[string]struct{}{
	"/usr/sbin/nologin": {},
	"/sbin/nologin":     {},
	"/bin/false":        {},
}

func (c *Collector) collectUserAccounts(ctx context.Context, r *Report) {
	switch c.goos {
	case "darwin", "linux":
		r.UserAccounts = c.unixAccounts(ctx)
	case "windows":
		r.UserAccounts = c.windowsAccounts(ctx)
	}

	if len(r.UserAccounts) == 0 {
		// Fall back to the invoking user so the audit always names someone.
		if u, err := user.Current(); err == nil {
			r.UserAccounts = []UserAccount{{Username: u.Username, IsAdmin: true}}
		}
	}
}

func (c *Collector) unixAccounts(ctx context.Context) []UserAccount {
	data, err := os.ReadFile(c.passwdPath)
	if err != nil {
		c.log.Warn(ctx, "passwd read failed", "error", err)
		return nil
	}

	var accounts []UserAccount
	for _, line := range strings.Split(string(data), "\n") {
		parts := strings.Split(strings.TrimSpace(line), ":")
		if len(parts) < 7 {
			continue
		}
		uid, err := strconv.Atoi(parts[2])
		if err != nil {
			continue
		}
		shell := parts[6]
		if uid != 0 && uid < 1000 {
			continue
		}
		if _, blocked := nonLoginShells[shell]; blocked {
			continue
		}
		accounts = append(accounts, UserAccount{
			Username: parts[0],
			IsAdmin:  uid == 0 || uid == 501 || uid == 1000,
		})
	}
	return accounts
}

func (c *Collector) windowsAccounts(ctx context.Context) []UserAccount {
	out, err := c.run(ctx, "wmic", "useraccount", "where", "LocalAccount=True", "get", "Name,Disabled")
	if err != nil {
		c.log.Warn(ctx, "wmic user listing failed", "error", err)
		return nil
	}

	admins := c.windowsAdmins(ctx)

	var accounts []UserAccount
	lines := strings.Split(string(out), "\n")
	for i, line := range lines {
		if i == 0 { // header
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		// Column order is alphabetical: Disabled, Name.
		disabled := strings.EqualFold(fields[0], "TRUE")
		if disabled || len(fields) < 2 {
			continue
		}
		name := fields[1]
		if _, system := windowsSystemAccounts[strings.ToLower(name)]; system {
			continue
		}
		_, isAdmin := admins[strings.ToLower(name)]
		accounts = append(accounts, UserAccount{Username: name, IsAdmin: isAdmin})
	}
	return accounts
}

func (c *Collector) windowsAdmins(ctx context.Context) map[string]struct{} {
	admins := make(map[string]struct{})
	out, err := c.run(ctx, "net", "localgroup", "Administrators")
	if err != nil {
		return admins
	}
	inMembers := false
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if strings.Contains(line, "----") {
			inMembers = true
			continue
		}
		if inMembers && line != "" && !strings.HasPrefix(line, "The command") {
			admins[strings.ToLower(line)] = struct{}{}
		}
	}
	return admins
}

func (c *Collector) collectNetwork(ctx context.Context, r *Report) {
	hostname, err := os.Hostname()
	if err != nil {
		c.log.Warn(ctx, "hostname probe failed", "error", err)
	}
	r.NetworkInfo.Hostname = hostname

	ifaces, err := gnet.InterfacesWithContext(ctx)
	if err != nil {
		c.log.Warn(ctx, "interface listing failed", "error", err)
		return
	}

	seen := make(map[string]struct{})
	for _, iface := range ifaces {
		for _, addr := range iface.Addrs {
			ip, _, err := stdnet.ParseCIDR(addr.Addr)
			if err != nil {
				// Some platforms report bare addresses without a mask.
				ip = stdnet.ParseIP(addr.Addr)
			}
			if ip == nil || ip.To4() == nil || ip.IsLoopback() {
				continue
			}
			s := ip.String()
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			r.NetworkInfo.IPAddresses = append(r.NetworkInfo.IPAddresses, s)
		}
	}
}

// Summary renders the short human-readable digest printed after a scan.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "OS: %s (%s)\n", r.OSName, r.OSVersion)
	fmt.Fprintf(&b, "Firewall: %s\n", enabledWord(r.FirewallEnabled))
	av := r.AntivirusName
	if av == "" {
		av = "Not detected"
	}
	fmt.Fprintf(&b, "Antivirus: %s\n", av)
	fmt.Fprintf(&b, "Disk Encryption: %s\n", enabledWord(r.DiskEncryptionEnabled))
	fmt.Fprintf(&b, "User Accounts: %d", len(r.UserAccounts))
	return b.String()
}

func enabledWord(v bool) string {
	if v {
		return "Enabled"
	}
	return "Disabled"
}
