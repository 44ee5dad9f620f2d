package discovery

// PageDescriptor is a component's verified download page.
type PageDescriptor struct {
	ComponentName string `json:"component_name"`
	Available     bool   `json:"available"`
	SiteURL       string `json:"site_url,omitempty"`
	// Abnormal is set after the pool is built: true when the page yielded
	// no accepted entries.
	Abnormal bool `json:"abnormal"`
}
