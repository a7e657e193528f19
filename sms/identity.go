package sms

import (
	"regexp"
	"strings"
)

// Identity of the phone as reported by gnokii --identify.
type Identity struct {
	IMEI         string `json:"imei"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model"`
	ProductName  string `json:"product_name,omitempty"`
	Revision     string `json:"revision,omitempty"`
}

var identityLine = regexp.MustCompile(`^([A-Za-z ]+?)\s*:\s*(.*)$`)

// ParseIdentity parses the output of the identify command. Unknown keys are ignored. The output
// is considered to be an identity only if it contains the IMEI or the model.
func ParseIdentity(output string) (Identity, bool) {
	var result Identity
	for _, line := range strings.Split(output, "\n") {
		parts := identityLine.FindStringSubmatch(strings.TrimSpace(line))
		if parts == nil {
			continue
		}
		value := strings.TrimSpace(parts[2])
		switch strings.ToUpper(parts[1]) {
		case "IMEI":
			result.IMEI = value
		case "MANUFACTURER":
			result.Manufacturer = value
		case "MODEL":
			result.Model = value
		case "PRODUCT NAME":
			result.ProductName = value
		case "REVISION":
			result.Revision = value
		}
	}
	if result.IMEI == "" && result.Model == "" {
		return Identity{}, false
	}
	return result, true
}
