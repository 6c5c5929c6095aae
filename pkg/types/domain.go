package types

// Model describes a discoverable regression-forest artifact on disk.
type Model struct {
	// Stable identifier for the model (artifact filename).
	// example: charges-rf-v3.forest.json
	ID string `json:"id" example:"charges-rf-v3.forest.json"`
	// Human-friendly name taken from the artifact metadata.
	// example: Charges random forest v3
	Name string `json:"name" example:"Charges random forest v3"`
	// Absolute path to the artifact file on disk.
	// example: /var/lib/premiumd/models/charges-rf-v3.forest.json
	Path string `json:"path" example:"/var/lib/premiumd/models/charges-rf-v3.forest.json"`
}
