package report

const (
	// APIDomain is the API domain for report resources
	APIDomain = "topd.kubectl.io"

	// APIVersion is the current API version for reports
	APIVersion = "v1alpha1"

	// FullAPIVersion is the complete API version string
	FullAPIVersion = APIDomain + "/" + APIVersion

	// Kind is the resource kind for reports
	Kind = "NodeUsageReport"
)
