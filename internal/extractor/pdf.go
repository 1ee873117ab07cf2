package extractor

import (
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// Horizontal distance, in points, above which two text runs on the same row
// belong to different columns of the rides table.
const columnGap = 15

// Layout-mode pdftotext pads columns with spaces.
var layoutGap = regexp.MustCompile(` {2,}`)

// ExtractText reads a printed ride-history PDF and returns the text of each
// page, with table columns separated by tabs as in a copy-paste from the page.
// Falls back to the external pdftotext command (poppler-utils) when the Go
// library yields nothing readable.
func ExtractText(filePath string) ([]string, error) {
	pages, libErr := extractWithLibrary(filePath)
	if libErr == nil && isReadableText(pages) {
		return pages, nil
	}

	popplerPages, popplerErr := extractWithPdftotext(filePath)
	if popplerErr == nil && isReadableText(popplerPages) {
		return popplerPages, nil
	}

	if libErr != nil {
		return nil, fmt.Errorf("PDF text extraction failed: %w", libErr)
	}
	return nil, fmt.Errorf("no readable ride history in PDF. Open the trips page in a browser, select all, copy and paste it into a .txt file instead")
}

// textQuality returns the share of plain ASCII characters in the pages.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if r < unicode.MaxASCII && (unicode.IsPrint(r) || unicode.IsSpace(r)) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// Words that show up on any trips page.
var commonWords = []string{
	"trip", "ride", "fare", "driver", "uber", "payment", "visa", "cash",
	"canceled", "pickup", "car", "city",
}

func containsCommonWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range commonWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// isReadableText requires more than 20 characters of mostly ASCII text with
// at least one word expected on a trips page.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 20 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsCommonWords(pages)
}

func extractWithPdftotext(filePath string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %w", err)
	}

	out, err := exec.Command("pdftotext", "-layout", filePath, "-").Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}

	// pdftotext separates pages with form feeds.
	var pages []string
	for _, page := range strings.Split(string(out), "\f") {
		var lines []string
		for _, line := range strings.Split(page, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				lines = append(lines, layoutGap.ReplaceAllString(line, "\t"))
			}
		}
		if len(lines) > 0 {
			pages = append(pages, strings.Join(lines, "\n"))
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdftotext produced no output")
	}
	return pages, nil
}

func extractWithLibrary(filePath string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(filePath)
	if openErr != nil {
		return nil, openErr
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	pages = extractByContent(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}
	return extractByRow(r, numPages), nil
}

// extractByContent groups text runs into rows by Y coordinate and orders each
// row by X, inserting a tab wherever the gap marks a new column.
func extractByContent(r *pdf.Reader, numPages int) []string {
	type textItem struct {
		x, w float64
		s    string
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		rowMap := make(map[int][]textItem)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			yKey := int(math.Round(t.Y))
			rowMap[yKey] = append(rowMap[yKey], textItem{x: t.X, w: t.W, s: t.S})
		}

		// PDF Y grows upwards.
		yKeys := make([]int, 0, len(rowMap))
		for y := range rowMap {
			yKeys = append(yKeys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

		var lines []string
		for _, y := range yKeys {
			items := rowMap[y]
			sort.Slice(items, func(a, b int) bool {
				return items[a].x < items[b].x
			})

			var b strings.Builder
			var prevEnd float64
			for j, item := range items {
				if j > 0 && item.x-prevEnd > columnGap {
					b.WriteString("\t")
				}
				b.WriteString(item.s)
				prevEnd = item.x + item.w
			}
			if line := strings.TrimSpace(b.String()); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByRow uses the library's own row grouping; words are joined with
// tabs since the library does not report column boundaries.
func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				if s := strings.TrimSpace(word.S); s != "" {
					parts = append(parts, s)
				}
			}
			if len(parts) > 0 {
				lines = append(lines, strings.Join(parts, "\t"))
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
