package types

// PredictRequest carries one record of raw policyholder fields.
// Validation tags mirror the input widget bounds of the original tool;
// the encoder itself never range-checks.
type PredictRequest struct {
	// Optional model identifier. If empty, the server default is used.
	// example: charges-rf-v3.forest.json
	Model string `json:"model,omitempty" example:"charges-rf-v3.forest.json"`
	// Age in whole years.
	// example: 35
	Age int `json:"age" validate:"gte=0,lte=100"`
	// Body mass index.
	// example: 27.5
	BMI float64 `json:"bmi" validate:"gte=0,lte=80"`
	// Number of dependent children covered by the policy.
	// example: 2
	Children int `json:"children" validate:"gte=0,lte=10"`
	// Smoker flag, "yes" or "no".
	// example: yes
	Smoker string `json:"smoker" validate:"oneof=yes no"`
	// Sex, "male" or "female".
	// example: female
	Sex string `json:"sex" validate:"oneof=male female"`
	// Residential region.
	// example: southeast
	Region string `json:"region" validate:"oneof=northwest southeast southwest northeast"`
}

// PredictResponse is the scored result for one PredictRequest.
type PredictResponse struct {
	// Identifier of the model that produced the estimate.
	// example: charges-rf-v3.forest.json
	Model string `json:"model"`
	// Estimated annual charge.
	// example: 14218.37
	Charge float64 `json:"charge" example:"14218.37"`
	// Charge formatted as currency for display. Presentation only.
	// example: $14218.37
	Display string `json:"display" example:"$14218.37"`
}

// ModelsResponse wraps the list of models returned by GET /v1/models.
type ModelsResponse struct {
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// StatusResponse is returned by GET /v1/status.
type StatusResponse struct {
	// Identifier of the default model.
	// example: charges-rf-v3.forest.json
	DefaultModel string `json:"default_model"`
	// Models currently resident in the artifact cache.
	CachedModels []string `json:"cached_models"`
	// Number of artifacts discovered in the models directory.
	// example: 2
	RegistrySize int `json:"registry_size" example:"2"`
	// Total artifact loads since startup.
	// example: 3
	LoadsTotal uint64 `json:"loads_total" example:"3"`
	// Total predictions served since startup.
	// example: 118
	PredictionsTotal uint64 `json:"predictions_total" example:"118"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Overall service state (loading, ready, error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Last error observed by the service (if any).
	LastError string `json:"last_error,omitempty"`
}

// ScatterPoint is one (x, y) observation tagged with the categorical
// value used to color it.
type ScatterPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Group string  `json:"group"`
}

// ScatterSeries is the payload for the scatter chart endpoints.
type ScatterSeries struct {
	// Axis labels, e.g. "age" / "charges".
	XLabel string         `json:"x_label"`
	YLabel string         `json:"y_label"`
	Points []ScatterPoint `json:"points"`
}

// BoxStats summarizes the charge distribution for one group of the
// smoker-impact chart.
type BoxStats struct {
	Group  string  `json:"group"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// DatasetSummary is returned by GET /v1/analytics/summary.
type DatasetSummary struct {
	Rows       int     `json:"rows"`
	MeanAge    float64 `json:"mean_age"`
	MeanBMI    float64 `json:"mean_bmi"`
	MeanCharge float64 `json:"mean_charge"`
	Smokers    int     `json:"smokers"`
}

// PreviewResponse is the head of an uploaded CSV, shown as-is with no
// validation against the trained feature schema.
type PreviewResponse struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	// Total number of data rows in the upload, which may exceed len(Rows).
	// example: 1338
	TotalRows int  `json:"total_rows" example:"1338"`
	Truncated bool `json:"truncated"`
}
