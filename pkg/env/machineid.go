// Package env resolves the identity of the device.
package env

import (
	"os"
	"strings"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// AppID salts the machine id so the published id cannot be traced back
// to /etc/machine-id.
const AppID = "signer-display"

// MachineID retrieves the unique ID identifying the machine.
func MachineID() (string, error) {
	return machineid.ProtectedID(AppID)
}

// DeviceID is the id used in topics. It is SIGNER_ID if set, else the first
// 12 characters of the protected machine id, else the host name.
func DeviceID() string {
	if id := strings.TrimSpace(os.Getenv("SIGNER_ID")); id != "" {
		return id
	}
	id, err := MachineID()
	if err == nil && id != "" {
		if len(id) > 12 {
			id = id[:12]
		}
		return id
	}
	glog.Warningf("machine id unavailable: %v", err)
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "signer"
	}
	return host
}
