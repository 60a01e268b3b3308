package report

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
)

const (
	pageMargin  = 18.0
	lineHeight  = 6.0
	indentLevel = 7.0
)

var boldMarkers = regexp.MustCompile(`\*\*(.*?)\*\*`)

// Report is the content of one exported meeting
type Report struct {
	MeetingID    string
	Filename     string
	Date         time.Time
	Summary      string
	Transcript   string
	Participants []entities.ParticipantResearch
}

// Filename returns the download name of the report
func Filename(meetingID string) string {
	return fmt.Sprintf("Meeting_Summary_%s.pdf", meetingID)
}

const coreFamily = "Helvetica"

// PDFRenderer lays reports out as A4 documents.
// The built-in Helvetica only covers cp1252; scripts such as Cyrillic or CJK need a
// UTF-8 TrueType font set with WithUTF8Font.
type PDFRenderer struct {
	regularFont string
	boldFont    string
}

// NewPDFRenderer creates a PDF renderer
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// WithUTF8Font renders text with the given TrueType files. bold may be empty, in which
// case the regular face is used for headings too.
func (r *PDFRenderer) WithUTF8Font(regular, bold string) *PDFRenderer {
	r.regularFont = regular
	r.boldFont = bold
	return r
}

// Render produces the PDF bytes. Sections always come in the same order:
// title block, executive summary, participant intelligence (only when there are
// participants), full transcript.
func (r *PDFRenderer) Render(rep Report) ([]byte, error) {
	pdf, err := r.layout(rep)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) layout(rep Report) (*fpdf.Fpdf, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle("Meeting Intelligence Report", true)

	w := &writer{pdf: pdf, family: coreFamily, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	if r.regularFont != "" {
		bold := r.boldFont
		if bold == "" {
			bold = r.regularFont
		}
		pdf.AddUTF8Font("Body", "", r.regularFont)
		pdf.AddUTF8Font("Body", "B", bold)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("failed to load report font: %w", err)
		}
		w.family, w.utf8 = "Body", true
		w.tr = func(s string) string { return s }
	}

	pdf.AddPage()
	w.title(rep)
	w.summary(rep.Summary)

	if len(rep.Participants) > 0 {
		pdf.AddPage()
		w.participants(rep.Participants)
	}

	pdf.AddPage()
	w.heading("Full Transcript")
	transcript := strings.TrimSpace(rep.Transcript)
	if transcript == "" {
		transcript = "No transcript available."
	}
	w.text("", 10, 0, transcript)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to lay out report: %w", err)
	}
	return pdf, nil
}

type writer struct {
	pdf    *fpdf.Fpdf
	family string
	utf8   bool
	tr     func(string) string
}

// font selects the report face; UTF-8 fonts only come in regular and bold
func (w *writer) font(style string, size float64) {
	if w.utf8 && style != "B" {
		style = ""
	}
	w.pdf.SetFont(w.family, style, size)
}

func (w *writer) title(rep Report) {
	w.font("B", 24)
	w.pdf.CellFormat(0, 12, w.tr("Meeting Intelligence Report"), "", 1, "C", false, 0, "")
	w.pdf.Ln(4)

	filename := rep.Filename
	if filename == "" {
		filename = "-"
	}
	date := "-"
	if !rep.Date.IsZero() {
		date = rep.Date.UTC().Format("2006-01-02 15:04 MST")
	}
	w.font("", 12)
	w.pdf.CellFormat(0, lineHeight, w.tr("File: "+filename), "", 1, "C", false, 0, "")
	w.pdf.CellFormat(0, lineHeight, w.tr("Date: "+date), "", 1, "C", false, 0, "")
	w.pdf.Ln(10)
}

func (w *writer) heading(s string) {
	w.font("B", 18)
	w.pdf.SetTextColor(16, 185, 129)
	w.pdf.CellFormat(0, 10, w.tr(s), "", 1, "L", false, 0, "")
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.Ln(3)
}

func (w *writer) subheading(s string) {
	w.font("B", 14)
	w.pdf.CellFormat(0, 8, w.tr(s), "", 1, "L", false, 0, "")
}

// text writes a wrapped paragraph at the given indent
func (w *writer) text(style string, size, indent float64, s string) {
	w.font(style, size)
	left, _, right, _ := w.pdf.GetMargins()
	pageW, _ := w.pdf.GetPageSize()
	w.pdf.SetX(left + indent)
	w.pdf.MultiCell(pageW-left-right-indent, lineHeight, w.tr(s), "", "L", false)
}

func (w *writer) bullets(title string, items []string) {
	if len(items) == 0 {
		return
	}
	w.subheading(title)
	for _, item := range items {
		w.text("", 11, indentLevel, "- "+item)
	}
	w.pdf.Ln(4)
}

func (w *writer) summary(raw string) {
	w.heading("Executive Summary")

	s, err := entities.ParseSummary(raw)
	if err == nil && !s.IsEmpty() {
		w.bullets("Key Outcomes", s.Outcomes)
		w.bullets("Risks & Open Questions", s.Risks)
		w.bullets("Next Steps", s.NextSteps)
		if len(s.ActionItems) > 0 {
			w.subheading("Action Items")
			for _, a := range s.ActionItems {
				w.text("B", 11, indentLevel, "Task: "+a.Task)
				if meta := actionMeta(a); meta != "" {
					w.text("I", 9, 2*indentLevel, meta)
				}
				w.pdf.Ln(2)
			}
		}
		return
	}

	// voice note summaries carry a different shape
	if wa, err := entities.ParseWhatsAppSummary(raw); err == nil && wa.Summary != "" {
		w.text("", 11, 0, wa.Summary)
		w.pdf.Ln(4)
		w.bullets("Immediate Actions", wa.ImmediateActions)
		return
	}

	if strings.TrimSpace(raw) == "" {
		raw = "No summary available."
	}
	w.text("", 11, 0, raw)
}

func actionMeta(a entities.ActionItem) string {
	var parts []string
	if a.Owner != "" {
		parts = append(parts, "Owner: "+a.Owner)
	}
	if a.Deadline != "" {
		parts = append(parts, "Deadline: "+a.Deadline)
	}
	return strings.Join(parts, " | ")
}

func (w *writer) participants(list []entities.ParticipantResearch) {
	w.heading("Participant Intelligence")

	left, _, right, _ := w.pdf.GetMargins()
	pageW, _ := w.pdf.GetPageSize()

	for _, p := range list {
		name := p.Name
		if name == "" {
			name = "Unknown"
		}
		w.subheading(fmt.Sprintf("%s (%s)", name, p.Email))
		if p.Company != "" {
			w.text("I", 11, 0, "Company: "+p.Company)
		}
		w.pdf.Ln(2)
		w.text("", 10, 0, StripMarkdownBold(p.ResearchData))
		w.pdf.Ln(3)

		y := w.pdf.GetY()
		w.pdf.SetDrawColor(238, 238, 238)
		w.pdf.Line(left, y, pageW-right, y)
		w.pdf.Ln(4)
	}
}

// StripMarkdownBold removes **bold** markers and keeps their content
func StripMarkdownBold(s string) string {
	return boldMarkers.ReplaceAllString(s, "$1")
}
