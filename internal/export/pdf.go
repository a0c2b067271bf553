// internal/export/pdf.go
package export

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// ReportData is everything the PDF report renders for one prediction.
type ReportData struct {
	Prediction             string
	IsParasitized          bool
	Confidence             float64
	ProbabilityParasitized float64
	ProbabilityUninfected  float64
	ModelName              string
	InferenceTimeMS        float64
	ImageFilename          string
	PatientName            string
	PatientID              string
	PatientAge             int
	ImagePNG               []byte // optional sample image embedded in the report
}

// Fixed interpretive text, selected by infection flag.
const (
	interpretationPositive = "The AI analysis indicates the presence of malaria parasites in the blood sample. " +
		"This preliminary result suggests a positive malaria infection."
	interpretationNegative = "The AI analysis shows no evidence of malaria parasites in the blood sample. " +
		"This preliminary result suggests no malaria infection."
	disclaimerText = "This is an AI-assisted preliminary analysis and should not replace professional medical diagnosis."
	footerText     = "Malaria Detection Platform - M1 DSGL UADB"
)

var recommendationsPositive = []string{
	"1. Immediate consultation with a healthcare provider is recommended",
	"2. Microscopic confirmation by a trained technician should be performed",
	"3. Begin appropriate antimalarial treatment as prescribed",
	"4. Monitor symptoms and follow up as directed by healthcare provider",
	"5. Take preventive measures to avoid further mosquito bites",
}

var recommendationsNegative = []string{
	"1. Continue routine health monitoring",
	"2. If symptoms persist, consult a healthcare provider",
	"3. Maintain preventive measures against mosquito bites",
	"4. Consider follow-up testing if exposed to malaria risk areas",
	"5. Stay informed about malaria prevention guidelines",
}

type report struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	width  float64
	height float64
	margin float64
	y      float64
}

// Report renders the PDF into memory.
func Report(data ReportData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	w, h := pdf.GetPageSize()
	r := &report{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		width:  w,
		height: h,
		margin: 20,
		y:      20,
	}
	pdf.SetAutoPageBreak(true, 25)
	pdf.AddPage()

	r.header()
	r.patientInfo(data)
	r.sampleImage(data.ImagePNG)
	r.results(data)
	r.interpretation(data.IsParasitized)
	r.recommendations(data.IsParasitized)
	r.footer()

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("export: rendering report: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("export: rendering report: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteReport renders the report and writes it to dir as
// malaria-report-{timestamp}.pdf.
func WriteReport(dir string, data ReportData) (string, error) {
	out, err := Report(data)
	if err != nil {
		return "", err
	}
	return writeExport(dir, fmt.Sprintf("malaria-report-%d.pdf", time.Now().UnixMilli()), out)
}

func (r *report) header() {
	pdf := r.pdf

	pdf.SetFillColor(59, 130, 246)
	pdf.Circle(r.margin+10, r.y+10, 8, "F")

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(r.margin+25, r.y+12, "MALARIA DETECTION REPORT")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.Text(r.margin+25, r.y+18, "AI-Powered Blood Cell Analysis")

	pdf.SetFontSize(9)
	pdf.Text(r.width-r.margin-50, r.y+12, "Report Date: "+time.Now().Format("January 2, 2006"))

	r.y += 30
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(r.margin, r.y, r.width-r.margin, r.y)
	r.y += 10
}

func (r *report) patientInfo(data ReportData) {
	pdf := r.pdf

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(r.margin, r.y, "Patient Information")
	r.y += 8

	pdf.SetFont("Helvetica", "", 10)
	if data.PatientName != "" {
		pdf.Text(r.margin+5, r.y, r.tr("Name: "+data.PatientName))
		r.y += 6
	}
	if data.PatientID != "" {
		pdf.Text(r.margin+5, r.y, r.tr("Patient ID: "+data.PatientID))
		r.y += 6
	}
	if data.PatientAge > 0 {
		pdf.Text(r.margin+5, r.y, fmt.Sprintf("Age: %d years", data.PatientAge))
		r.y += 6
	}
	pdf.Text(r.margin+5, r.y, r.tr("Sample ID: "+data.ImageFilename))
	r.y += 10
}

func (r *report) sampleImage(imagePNG []byte) {
	if len(imagePNG) == 0 {
		return
	}
	pdf := r.pdf

	// An undecodable image is skipped, not fatal for the report.
	if _, err := png.DecodeConfig(bytes.NewReader(imagePNG)); err != nil {
		return
	}

	const imgSize = 80.0
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("sample", opts, bytes.NewReader(imagePNG))
	pdf.ImageOptions("sample", (r.width-imgSize)/2, r.y, imgSize, imgSize, false, opts, 0, "")
	r.y += imgSize + 10
}

func (r *report) results(data ReportData) {
	pdf := r.pdf

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(r.margin, r.y, "Analysis Results")
	r.y += 8

	const boxHeight = 40.0
	if data.IsParasitized {
		pdf.SetFillColor(239, 68, 68)
	} else {
		pdf.SetFillColor(34, 197, 94)
	}
	pdf.RoundedRect(r.margin, r.y, r.width-2*r.margin, boxHeight, 3, "1234", "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 20)
	r.centeredText(r.y+15, strings.ToUpper(data.Prediction))
	pdf.SetFontSize(14)
	r.centeredText(r.y+28, fmt.Sprintf("Confidence: %.2f%%", data.Confidence))

	r.y += boxHeight + 10
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(r.margin, r.y, "Detailed Analysis:")
	r.y += 8

	pdf.SetFont("Helvetica", "", 10)
	r.probabilityBar("Parasitized:", data.ProbabilityParasitized, 239, 68, 68)
	r.probabilityBar("Uninfected:", data.ProbabilityUninfected, 34, 197, 94)
	r.y += 5

	pdf.SetFontSize(9)
	pdf.SetTextColor(100, 100, 100)
	pdf.Text(r.margin+5, r.y, r.tr("Model: "+data.ModelName))
	if data.InferenceTimeMS > 0 {
		pdf.Text(r.width-r.margin-40, r.y, fmt.Sprintf("Processing Time: %.0fms", data.InferenceTimeMS))
	}
	r.y += 10
	pdf.SetTextColor(0, 0, 0)
}

func (r *report) probabilityBar(label string, percentage float64, red, green, blue int) {
	pdf := r.pdf

	pdf.Text(r.margin+5, r.y, label)
	pdf.Text(r.width-r.margin-30, r.y, fmt.Sprintf("%.2f%%", percentage))
	r.y += 6

	const barHeight = 4.0
	barWidth := r.width - 2*r.margin - 10
	pdf.SetFillColor(220, 220, 220)
	pdf.RoundedRect(r.margin+5, r.y, barWidth, barHeight, 2, "1234", "F")
	if fill := barWidth * percentage / 100; fill > 0 {
		pdf.SetFillColor(red, green, blue)
		pdf.RoundedRect(r.margin+5, r.y, fill, barHeight, 2, "1234", "F")
	}
	r.y += 10
}

func (r *report) interpretation(isParasitized bool) {
	pdf := r.pdf

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(r.margin, r.y, "Clinical Interpretation")
	r.y += 8

	text := interpretationNegative
	if isParasitized {
		text = interpretationPositive
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(r.margin+5, r.y-4)
	pdf.MultiCell(r.width-2*r.margin-10, 6, text, "", "L", false)
	r.y = pdf.GetY() + 10
}

func (r *report) recommendations(isParasitized bool) {
	pdf := r.pdf

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(r.margin, r.y, "Recommendations")
	r.y += 8

	items := recommendationsNegative
	if isParasitized {
		items = recommendationsPositive
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(r.margin+5, r.y-4)
		pdf.MultiCell(r.width-2*r.margin-10, 6, item, "", "L", false)
		r.y = pdf.GetY() + 4
	}
	r.y += 6

	const noteHeight = 20.0
	pdf.SetFillColor(255, 243, 205)
	pdf.RoundedRect(r.margin, r.y, r.width-2*r.margin, noteHeight, 2, "1234", "F")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Text(r.margin+5, r.y+6, "IMPORTANT NOTE:")
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(r.margin+5, r.y+12, disclaimerText)
	r.y += noteHeight + 10
}

func (r *report) footer() {
	pdf := r.pdf

	footerY := r.height - 20
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(r.margin, footerY-5, r.width-r.margin, footerY-5)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(100, 100, 100)
	r.centeredText(footerY, footerText)
	r.centeredText(footerY+5, "Generated on "+time.Now().Format("January 2, 2006 3:04 PM"))
}

func (r *report) centeredText(y float64, text string) {
	t := r.tr(text)
	x := (r.width - r.pdf.GetStringWidth(t)) / 2
	r.pdf.Text(x, y, t)
}
