package models

// Incident is a static network alert shown on the incidents page.
type Incident struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Severity    string   `json:"severity" yaml:"severity"`
	Location    string   `json:"location" yaml:"location"`
	Timestamp   string   `json:"timestamp" yaml:"timestamp"`
	Device      string   `json:"device" yaml:"device"`
	Evidence    string   `json:"evidence" yaml:"evidence"`
	Remediation []string `json:"remediation" yaml:"remediation"`
}

// Vendor names for command mapping columns.
const (
	VendorCisco  = "cisco"
	VendorAruba  = "aruba"
	VendorRuckus = "ruckus"
)

// Vendors lists the supported vendors in column order.
func Vendors() []string {
	return []string{VendorCisco, VendorAruba, VendorRuckus}
}

// CommandMapping is one row of the multi-vendor CLI table.
type CommandMapping struct {
	Description string `json:"description" yaml:"description"`
	Cisco       string `json:"cisco" yaml:"cisco"`
	Aruba       string `json:"aruba" yaml:"aruba"`
	Ruckus      string `json:"ruckus" yaml:"ruckus"`
}

// Command returns the command for vendor, or "" for an unknown vendor.
func (c CommandMapping) Command(vendor string) string {
	switch vendor {
	case VendorCisco:
		return c.Cisco
	case VendorAruba:
		return c.Aruba
	case VendorRuckus:
		return c.Ruckus
	default:
		return ""
	}
}
