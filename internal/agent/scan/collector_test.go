package scan

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aricainsights/toucan/internal/logging"
)

func testCollector(t *testing.T, goos string, run Runner) *Collector {
	t.Helper()
	c := NewCollector(logging.NewTextLogger(os.Stderr, slog.LevelError))
	c.goos = goos
	if run != nil {
		c.run = run
	}
	return c
}

// stubRunner returns canned output per command name.
func stubRunner(outputs map[string]string, errs map[string]error) Runner {
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if err, ok := errs[name]; ok {
			return nil, err
		}
		if out, ok := outputs[name]; ok {
			return []byte(out), nil
		}
		return nil, errors.New("command not stubbed: " + name)
	}
}

func TestCollectFirewall_LinuxUFWActive(t *testing.T) {
	c := testCollector(t, "linux", stubRunner(map[string]string{
		"ufw": "Status: active",
	}, nil))

	var r Report
	c.collectFirewall(context.Background(), &r)

	assert.True(t, r.FirewallEnabled)
	assert.Equal(t, "UFW Firewall Active", r.FirewallStatus)
}

func TestCollectFirewall_LinuxFallsBackToIptables(t *testing.T) {
	c := testCollector(t, "linux", stubRunner(map[string]string{
		"iptables": "Chain INPUT (policy ACCEPT)",
	}, map[string]error{
		"ufw": errors.New("not found"),
	}))

	var r Report
	c.collectFirewall(context.Background(), &r)

	assert.True(t, r.FirewallEnabled)
	assert.Equal(t, "iptables configured", r.FirewallStatus)
}

func TestCollectFirewall_LinuxNothingDetected(t *testing.T) {
	c := testCollector(t, "linux", stubRunner(nil, map[string]error{
		"ufw":      errors.New("not found"),
		"iptables": errors.New("not found"),
	}))

	var r Report
	c.collectFirewall(context.Background(), &r)

	assert.False(t, r.FirewallEnabled)
	assert.Equal(t, "No firewall detected", r.FirewallStatus)
}

func TestCollectFirewall_WindowsOn(t *testing.T) {
	c := testCollector(t, "windows", stubRunner(map[string]string{
		"netsh": "State ON",
	}, nil))

	var r Report
	c.collectFirewall(context.Background(), &r)

	assert.True(t, r.FirewallEnabled)
	assert.Equal(t, "Windows Firewall Active", r.FirewallStatus)
}

func TestCollectAntivirus_DarwinBuiltin(t *testing.T) {
	c := testCollector(t, "darwin", nil)

	var r Report
	c.collectAntivirus(context.Background(), &r)

	assert.True(t, r.AntivirusInstalled)
	assert.Equal(t, "XProtect (Built-in)", r.AntivirusName)
}

func TestCollectAntivirus_LinuxDetectsClamAV(t *testing.T) {
	c := testCollector(t, "linux", func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if name == "which" && len(args) == 1 && args[0] == "clamav" {
			return []byte("/usr/bin/clamav"), nil
		}
		return nil, errors.New("not found")
	})

	var r Report
	c.collectAntivirus(context.Background(), &r)

	assert.True(t, r.AntivirusInstalled)
	assert.Equal(t, "ClamAV", r.AntivirusName)
}

func TestCollectDiskEncryption_LinuxLUKS(t *testing.T) {
	c := testCollector(t, "linux", stubRunner(map[string]string{
		"lsblk": "sda  disk\nsda1 part /\ncr0  crypt /secret",
	}, nil))

	var r Report
	c.collectDiskEncryption(context.Background(), &r)

	assert.True(t, r.DiskEncryptionEnabled)
	assert.Equal(t, "LUKS/dm-crypt", r.DiskEncryptionMethod)
}

func TestUnixAccounts_FiltersSystemUsers(t *testing.T) {
	passwd := strings.Join([]string{
		"root:x:0:0:root:/root:/bin/bash",
		"daemon:x:1:1:daemon:/usr/sbin:/usr/sbin/nologin",
		"alice:x:1000:1000:Alice:/home/alice:/bin/bash",
		"bob:x:1001:1001:Bob:/home/bob:/bin/zsh",
		"svc:x:1002:1002:Service:/srv:/usr/sbin/nologin",
		"malformed-line",
	}, "\n")

	path := filepath.Join(t.TempDir(), "passwd")
	require.NoError(t, os.WriteFile(path, []byte(passwd), 0o600))

	c := testCollector(t, "linux", nil)
	c.passwdPath = path

	accounts := c.unixAccounts(context.Background())
	require.Len(t, accounts, 3)
	assert.Equal(t, UserAccount{Username: "root", IsAdmin: true}, accounts[0])
	assert.Equal(t, UserAccount{Username: "alice", IsAdmin: true}, accounts[1])
	assert.Equal(t, UserAccount{Username: "bob", IsAdmin: false}, accounts[2])
}

func TestCollectUserAccounts_FallsBackToCurrentUser(t *testing.T) {
	c := testCollector(t, "linux", nil)
	c.passwdPath = filepath.Join(t.TempDir(), "missing")

	var r Report
	c.collectUserAccounts(context.Background(), &r)

	require.Len(t, r.UserAccounts, 1)
	assert.True(t, r.UserAccounts[0].IsAdmin)
}

func TestReport_JSONFieldNames(t *testing.T) {
	r := Report{
		OSName:          "ubuntu 22.04",
		FirewallEnabled: true,
		UserAccounts:    []UserAccount{{Username: "alice", IsAdmin: true}},
		NetworkInfo:     NetworkInfo{Hostname: "box", IPAddresses: []string{"10.0.0.2"}},
	}
	b, err := json.Marshal(r)
	require.NoError(t, err)

	for _, field := range []string{
		`"osName"`, `"osVersion"`, `"osPlatform"`,
		`"firewallEnabled"`, `"firewallStatus"`,
		`"antivirusInstalled"`, `"antivirusStatus"`,
		`"diskEncryptionEnabled"`,
		`"userAccounts"`, `"isAdmin"`,
		`"networkInfo"`, `"ipAddresses"`,
		`"collectedAt"`,
	} {
		assert.Contains(t, string(b), field)
	}
}

func TestReport_Summary(t *testing.T) {
	r := Report{
		OSName:          "ubuntu 22.04",
		OSVersion:       "6.8.0",
		FirewallEnabled: true,
		UserAccounts:    []UserAccount{{Username: "alice"}},
	}
	s := r.Summary()
	assert.Contains(t, s, "OS: ubuntu 22.04 (6.8.0)")
	assert.Contains(t, s, "Firewall: Enabled")
	assert.Contains(t, s, "Antivirus: Not detected")
	assert.Contains(t, s, "User Accounts: 1")
}
