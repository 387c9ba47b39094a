// Package scan collects the system information submitted with a compliance
// audit: OS details, firewall/antivirus/disk-encryption status, local user
// accounts and network identity. Field names follow the platform API schema.
package scan

import "time"

// UserAccount is a local account relevant to access-control review.
type UserAccount struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// NetworkInfo identifies the machine on the network.
type NetworkInfo struct {
	Hostname    string   `json:"hostname"`
	IPAddresses []string `json:"ipAddresses"`
}

// Report is the full system snapshot uploaded to the audit API.
type Report struct {
	OSName    string `json:"osName"`
	OSVersion string `json:"osVersion"`
	OSPlatform string `json:"osPlatform"`

	FirewallEnabled bool   `json:"firewallEnabled"`
	FirewallStatus  string `json:"firewallStatus"`

	AntivirusInstalled bool   `json:"antivirusInstalled"`
	AntivirusName      string `json:"antivirusName,omitempty"`
	AntivirusStatus    string `json:"antivirusStatus"`

	DiskEncryptionEnabled bool   `json:"diskEncryptionEnabled"`
	DiskEncryptionMethod  string `json:"diskEncryptionMethod,omitempty"`

	UserAccounts []UserAccount `json:"userAccounts"`
	NetworkInfo  NetworkInfo   `json:"networkInfo"`

	CollectedAt time.Time `json:"collectedAt"`
}
