package httpapi

import (
	"html/template"
	"net/http"
	"strconv"

	"premiumd/internal/dataset"
	"premiumd/pkg/types"
)

// The dashboard is a small server-rendered UI over the same service
// the JSON API exposes: home, a predict form, analytics charts built
// from the reference dataset, and an upload preview.

type pageData struct {
	Title  string
	Active string

	// Home
	HasAnimation bool

	// Predict
	Form      formValues
	Result    *types.PredictResponse
	FormError string

	// Analytics
	DatasetError string
	Summary      types.DatasetSummary
	AgeChart     chartViewModel
	BMIChart     chartViewModel
	SmokerBoxes  []types.BoxStats

	// Upload
	Preview     *types.PreviewResponse
	UploadError string
}

type formValues struct {
	Age      string
	BMI      string
	Children string
	Smoker   string
	Sex      string
	Region   string
}

func defaultForm() formValues {
	return formValues{Age: "30", BMI: "25.0", Children: "0", Smoker: "no", Sex: "female", Region: "northwest"}
}

func handleHome(w http.ResponseWriter, r *http.Request) {
	_, hasAnim := loadAnimation()
	render(w, "home", pageData{Title: "Insurance Charge Predictor", Active: "home", HasAnimation: hasAnim})
}

func handlePredictPage(w http.ResponseWriter, r *http.Request) {
	render(w, "predict", pageData{Title: "Predict", Active: "predict", Form: defaultForm()})
}

// handlePredictForm serves the browser form: it parses the posted
// fields into a PredictRequest and re-renders the page with either the
// result card or the validation message.
func handlePredictForm(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid form body")
			return
		}
		form := formValues{
			Age:      r.PostFormValue("age"),
			BMI:      r.PostFormValue("bmi"),
			Children: r.PostFormValue("children"),
			Smoker:   r.PostFormValue("smoker"),
			Sex:      r.PostFormValue("sex"),
			Region:   r.PostFormValue("region"),
		}
		data := pageData{Title: "Predict", Active: "predict", Form: form}

		req, err := form.request()
		if err == nil {
			err = validate.Struct(req)
			if err != nil {
				err = errInvalid{validationMessage(err)}
			}
		}
		if err != nil {
			data.FormError = err.Error()
			render(w, "predict", data)
			return
		}
		resp, err := svc.Predict(r.Context(), req)
		if err != nil {
			countPrediction(req.Model, "error")
			data.FormError = err.Error()
			render(w, "predict", data)
			return
		}
		countPrediction(req.Model, "ok")
		data.Result = &resp
		render(w, "predict", data)
	}
}

type errInvalid struct{ msg string }

func (e errInvalid) Error() string { return e.msg }

func (f formValues) request() (types.PredictRequest, error) {
	age, err := strconv.Atoi(f.Age)
	if err != nil {
		return types.PredictRequest{}, errInvalid{"age must be a whole number"}
	}
	bmi, err := strconv.ParseFloat(f.BMI, 64)
	if err != nil {
		return types.PredictRequest{}, errInvalid{"bmi must be a number"}
	}
	children, err := strconv.Atoi(f.Children)
	if err != nil {
		return types.PredictRequest{}, errInvalid{"children must be a whole number"}
	}
	return types.PredictRequest{
		Age:      age,
		BMI:      bmi,
		Children: children,
		Smoker:   f.Smoker,
		Sex:      f.Sex,
		Region:   f.Region,
	}, nil
}

func handleAnalyticsPage(w http.ResponseWriter, r *http.Request) {
	data := pageData{Title: "Analytics", Active: "analytics"}
	recs, status, msg := loadDataset()
	if status != 0 {
		data.DatasetError = msg
		render(w, "analytics", data)
		return
	}
	data.Summary = dataset.Summary(recs)
	data.AgeChart = newChartViewModel(dataset.AgeChargesBySex(recs))
	data.BMIChart = newChartViewModel(dataset.BMIChargesBySmoker(recs))
	data.SmokerBoxes = dataset.SmokerBoxStats(recs)
	render(w, "analytics", data)
}

func handleUploadPage(w http.ResponseWriter, r *http.Request) {
	render(w, "upload", pageData{Title: "Upload Dataset", Active: "upload"})
}

func handleUploadForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	data := pageData{Title: "Upload Dataset", Active: "upload"}
	file, _, err := r.FormFile("file")
	if err != nil {
		data.UploadError = "choose a CSV file to upload"
		render(w, "upload", data)
		return
	}
	defer file.Close()
	preview, err := dataset.Preview(file, previewRows)
	if err != nil {
		data.UploadError = err.Error()
		render(w, "upload", data)
		return
	}
	data.Preview = &preview
	render(w, "upload", data)
}

func render(w http.ResponseWriter, page string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, page, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// chartViewModel scales a scatter series into fixed SVG coordinates so
// the template only has to loop.
type chartViewModel struct {
	XLabel, YLabel string
	Width, Height  int
	Points         []svgPoint
	Legend         []legendEntry
}

type svgPoint struct {
	CX, CY float64
	Color  string
}

type legendEntry struct {
	Group string
	Color string
}

var groupColors = []string{"#2E86C1", "#E67E22", "#27AE60", "#8E44AD"}

const (
	chartWidth  = 640
	chartHeight = 320
	chartPad    = 30.0
)

func newChartViewModel(s types.ScatterSeries) chartViewModel {
	vm := chartViewModel{XLabel: s.XLabel, YLabel: s.YLabel, Width: chartWidth, Height: chartHeight}
	if len(s.Points) == 0 {
		return vm
	}
	minX, maxX := s.Points[0].X, s.Points[0].X
	minY, maxY := s.Points[0].Y, s.Points[0].Y
	for _, p := range s.Points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	spanX, spanY := maxX-minX, maxY-minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}
	colors := map[string]string{}
	for _, p := range s.Points {
		color, ok := colors[p.Group]
		if !ok {
			color = groupColors[len(colors)%len(groupColors)]
			colors[p.Group] = color
			vm.Legend = append(vm.Legend, legendEntry{Group: p.Group, Color: color})
		}
		vm.Points = append(vm.Points, svgPoint{
			CX:    chartPad + (p.X-minX)/spanX*(chartWidth-2*chartPad),
			CY:    chartHeight - chartPad - (p.Y-minY)/spanY*(chartHeight-2*chartPad),
			Color: color,
		})
	}
	return vm
}

var pages = template.Must(template.New("").Parse(pageTemplates))

const pageTemplates = `
{{define "head"}}
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>{{.Title}} · premiumd</title>
	<style>
		body { font-family: Arial, sans-serif; max-width: 880px; margin: 40px auto; padding: 0 20px; background: #f7f7f7; color: #333; }
		h1 { text-align: center; color: #2E86C1; }
		nav { text-align: center; margin-bottom: 30px; }
		nav a { margin: 0 12px; color: #2E86C1; text-decoration: none; font-weight: bold; }
		nav a.active { border-bottom: 2px solid #2E86C1; }
		form.predict { display: grid; grid-template-columns: 1fr 1fr 1fr; gap: 14px; }
		label { font-weight: bold; display: block; margin-bottom: 4px; }
		input, select { width: 100%; padding: 8px; font-size: 14px; border-radius: 8px; border: 1px solid #aaa; box-sizing: border-box; }
		button { grid-column: 1 / -1; padding: 10px; border: none; background: #2E86C1; color: white; font-weight: bold; border-radius: 8px; cursor: pointer; }
		button:hover { background: #1B4F72; }
		.card { background: white; padding: 20px; margin-top: 20px; border-radius: 10px; box-shadow: 0 0 8px rgba(0,0,0,0.08); }
		.result { text-align: center; background: #D4EFDF; border: 1px solid #A9DFBF; }
		.error { background: #FADBD8; border: 1px solid #F1948A; padding: 12px; border-radius: 8px; margin-top: 16px; }
		.info { background: #D6EAF8; border: 1px solid #AED6F1; padding: 12px; border-radius: 8px; margin-top: 16px; }
		table { border-collapse: collapse; width: 100%; }
		th, td { border: 1px solid #ddd; padding: 6px 10px; text-align: left; font-size: 14px; }
		th { background: #EBF5FB; }
		.legend span { margin-right: 16px; font-size: 13px; }
		.footer { font-size: 13px; color: #999; text-align: center; margin-top: 40px; }
	</style>
</head>
<body>
	<h1>Insurance Charge Predictor</h1>
	<nav>
		<a href="/" {{if eq .Active "home"}}class="active"{{end}}>Home</a>
		<a href="/predict" {{if eq .Active "predict"}}class="active"{{end}}>Predict</a>
		<a href="/analytics" {{if eq .Active "analytics"}}class="active"{{end}}>Analytics</a>
		<a href="/upload" {{if eq .Active "upload"}}class="active"{{end}}>Upload Dataset</a>
	</nav>
{{end}}

{{define "foot"}}
	<div class="footer">premiumd · estimates are model output, not quotes</div>
</body>
</html>
{{end}}

{{define "home"}}
{{template "head" .}}
	<div class="card">
		<p>Estimate medical insurance charges from a handful of policyholder fields, scored by a pre-trained regression forest.</p>
		{{if .HasAnimation}}
		<div id="animation" data-src="/v1/animation"></div>
		{{else}}
		<div class="info">Animation file not found. Add one next to the server binary for animated graphics.</div>
		{{end}}
		<ul>
			<li>Model prediction from the loaded artifact</li>
			<li>Interactive analytics from the reference dataset</li>
			<li>Upload your own CSV for a quick preview</li>
		</ul>
	</div>
{{template "foot" .}}
{{end}}

{{define "predict"}}
{{template "head" .}}
	<div class="card">
		<form class="predict" action="/predict" method="POST">
			<div><label>Age</label><input type="number" name="age" min="0" max="100" value="{{.Form.Age}}" required></div>
			<div><label>Children</label><input type="number" name="children" min="0" max="10" value="{{.Form.Children}}" required></div>
			<div><label>Sex</label><select name="sex">
				<option {{if eq .Form.Sex "male"}}selected{{end}}>male</option>
				<option {{if eq .Form.Sex "female"}}selected{{end}}>female</option>
			</select></div>
			<div><label>BMI</label><input type="number" step="0.1" name="bmi" min="0" max="80" value="{{.Form.BMI}}" required></div>
			<div><label>Smoker</label><select name="smoker">
				<option {{if eq .Form.Smoker "yes"}}selected{{end}}>yes</option>
				<option {{if eq .Form.Smoker "no"}}selected{{end}}>no</option>
			</select></div>
			<div><label>Region</label><select name="region">
				<option {{if eq .Form.Region "northwest"}}selected{{end}}>northwest</option>
				<option {{if eq .Form.Region "southeast"}}selected{{end}}>southeast</option>
				<option {{if eq .Form.Region "southwest"}}selected{{end}}>southwest</option>
				<option {{if eq .Form.Region "northeast"}}selected{{end}}>northeast</option>
			</select></div>
			<button type="submit">Predict</button>
		</form>
		{{if .FormError}}<div class="error">{{.FormError}}</div>{{end}}
		{{if .Result}}
		<div class="card result">
			<h3>Predicted Charge</h3>
			<h1>{{.Result.Display}}</h1>
			<p>model: {{.Result.Model}}</p>
		</div>
		{{end}}
	</div>
{{template "foot" .}}
{{end}}

{{define "scatter"}}
	<svg width="{{.Width}}" height="{{.Height}}" role="img">
		<rect width="{{.Width}}" height="{{.Height}}" fill="white"/>
		{{range .Points}}<circle cx="{{.CX}}" cy="{{.CY}}" r="3" fill="{{.Color}}" fill-opacity="0.6"/>{{end}}
		<text x="{{.Width}}" y="{{.Height}}" text-anchor="end" font-size="12">{{.XLabel}}</text>
		<text x="4" y="12" font-size="12">{{.YLabel}}</text>
	</svg>
	<div class="legend">{{range .Legend}}<span style="color:{{.Color}}">&#9679; {{.Group}}</span>{{end}}</div>
{{end}}

{{define "analytics"}}
{{template "head" .}}
	{{if .DatasetError}}
	<div class="error">{{.DatasetError}}</div>
	{{else}}
	<div class="card">
		<h3>Dataset</h3>
		<p>{{.Summary.Rows}} rows · mean age {{printf "%.1f" .Summary.MeanAge}} · mean BMI {{printf "%.1f" .Summary.MeanBMI}} · mean charge {{printf "$%.2f" .Summary.MeanCharge}} · {{.Summary.Smokers}} smokers</p>
	</div>
	<div class="card">
		<h3>Age vs Charges</h3>
		{{template "scatter" .AgeChart}}
	</div>
	<div class="card">
		<h3>BMI vs Charges</h3>
		{{template "scatter" .BMIChart}}
	</div>
	<div class="card">
		<h3>Smoker Impact</h3>
		<table>
			<tr><th>group</th><th>count</th><th>min</th><th>q1</th><th>median</th><th>q3</th><th>max</th><th>mean</th></tr>
			{{range .SmokerBoxes}}
			<tr><td>{{.Group}}</td><td>{{.Count}}</td><td>{{printf "%.2f" .Min}}</td><td>{{printf "%.2f" .Q1}}</td><td>{{printf "%.2f" .Median}}</td><td>{{printf "%.2f" .Q3}}</td><td>{{printf "%.2f" .Max}}</td><td>{{printf "%.2f" .Mean}}</td></tr>
			{{end}}
		</table>
	</div>
	{{end}}
{{template "foot" .}}
{{end}}

{{define "upload"}}
{{template "head" .}}
	<div class="card">
		<form action="/upload" method="POST" enctype="multipart/form-data">
			<label>Upload CSV</label>
			<input type="file" name="file" accept=".csv">
			<button type="submit" style="margin-top:12px">Preview</button>
		</form>
		{{if .UploadError}}<div class="error">{{.UploadError}}</div>{{end}}
	</div>
	{{if .Preview}}
	<div class="card">
		<h3>Preview</h3>
		<table>
			<tr>{{range .Preview.Columns}}<th>{{.}}</th>{{end}}</tr>
			{{range .Preview.Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}
		</table>
		<p>{{.Preview.TotalRows}} rows{{if .Preview.Truncated}} (showing first {{len .Preview.Rows}}){{end}}</p>
	</div>
	{{end}}
{{template "foot" .}}
{{end}}
`
