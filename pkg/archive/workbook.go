package archive

import (
	"encoding/xml"
	"fmt"
	"math"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/protocolfill/pkg/domain"
)

const (
	workbookPath     = "xl/workbook.xml"
	workbookRelsPath = "xl/_rels/workbook.xml.rels"
)

type workbookXML struct {
	Sheets []struct {
		Name string `xml:"name,attr"`
		// r:id lives in the relationships namespace
		RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sheets>sheet"`
}

type relationshipsXML struct {
	Relationships []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// Sheet names one worksheet of the workbook.
type Sheet struct {
	Name string
	Path string
}

// Sheets lists the worksheets in workbook order with their entry paths.
func (p *Package) Sheets() ([]Sheet, error) {
	wbData, err := p.Read(workbookPath)
	if err != nil {
		return nil, err
	}
	var wb workbookXML
	if err := xml.Unmarshal(wbData, &wb); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrCorruptPackage, workbookPath, err)
	}

	targets := make(map[string]string)
	if relData, err := p.Read(workbookRelsPath); err == nil {
		var rels relationshipsXML
		if err := xml.Unmarshal(relData, &rels); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrCorruptPackage, workbookRelsPath, err)
		}
		for _, r := range rels.Relationships {
			targets[r.ID] = r.Target
		}
	}

	sheets := make([]Sheet, 0, len(wb.Sheets))
	for _, s := range wb.Sheets {
		target, ok := targets[s.RID]
		if !ok {
			continue
		}
		sheets = append(sheets, Sheet{Name: s.Name, Path: resolveTarget(target)})
	}
	return sheets, nil
}

// resolveTarget turns a relationship target into a package entry name.
func resolveTarget(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(path.Dir(workbookPath), target))
}

// ResolveWorksheetPath returns the entry path of the named worksheet, or of
// the first worksheet when sheetName is empty. Packages without a readable
// workbook fall back to the xl/worksheets/*.xml entry with the lowest sheet
// number (sheet2.xml before sheet10.xml).
func (p *Package) ResolveWorksheetPath(sheetName string) (string, error) {
	sheets, err := p.Sheets()
	if err == nil && len(sheets) > 0 {
		for _, s := range sheets {
			if sheetName == "" || strings.EqualFold(s.Name, sheetName) {
				if !p.Has(s.Path) {
					return "", fmt.Errorf("%w: %s points to missing entry %s", domain.ErrWorksheetNotFound, s.Name, s.Path)
				}
				return s.Path, nil
			}
		}
		return "", fmt.Errorf("%w: no sheet named %q", domain.ErrWorksheetNotFound, sheetName)
	}
	if sheetName != "" {
		return "", fmt.Errorf("%w: no workbook to resolve sheet %q", domain.ErrWorksheetNotFound, sheetName)
	}

	var candidates []string
	for name := range p.index {
		if strings.HasPrefix(name, "xl/worksheets/") && strings.HasSuffix(name, ".xml") && !strings.Contains(strings.TrimPrefix(name, "xl/worksheets/"), "/") {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		return "", domain.ErrWorksheetNotFound
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := sheetNumber(candidates[i]), sheetNumber(candidates[j])
		if a != b {
			return a < b
		}
		return candidates[i] < candidates[j]
	})
	return candidates[0], nil
}

// sheetNumber returns the trailing number of a worksheet entry name
// (sheet10.xml -> 10). Names without one sort last.
func sheetNumber(name string) int {
	base := strings.TrimSuffix(path.Base(name), ".xml")
	i := len(base)
	for i > 0 && base[i-1] >= '0' && base[i-1] <= '9' {
		i--
	}
	n, err := strconv.Atoi(base[i:])
	if err != nil {
		return math.MaxInt
	}
	return n
}
