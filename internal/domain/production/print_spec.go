package production

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/printflow/backend/internal/domain/shared"
)

// SizeUnit is the measurement unit of a trim size
type SizeUnit string

const (
	UnitMillimeter SizeUnit = "MM"
	UnitCentimeter SizeUnit = "CM"
	UnitInch       SizeUnit = "INCH"
)

// IsValid checks if the SizeUnit is a valid value
func (u SizeUnit) IsValid() bool {
	switch u {
	case UnitMillimeter, UnitCentimeter, UnitInch:
		return true
	}
	return false
}

// PaperType represents the stock a job is printed on
type PaperType string

const (
	PaperArt       PaperType = "ART_PAPER"
	PaperOffset    PaperType = "OFFSET_PAPER"
	PaperCardboard PaperType = "CARDBOARD"
	PaperVinyl     PaperType = "VINYL"
	PaperFabric    PaperType = "FABRIC"
	PaperCanvas    PaperType = "CANVAS"
	PaperOther     PaperType = "OTHER"
)

// IsValid checks if the PaperType is a valid value
func (p PaperType) IsValid() bool {
	switch p {
	case PaperArt, PaperOffset, PaperCardboard, PaperVinyl,
		PaperFabric, PaperCanvas, PaperOther:
		return true
	}
	return false
}

// ColorMode represents the color space a job is printed in
type ColorMode string

const (
	ColorCMYK      ColorMode = "CMYK"
	ColorRGB       ColorMode = "RGB"
	ColorGrayscale ColorMode = "GRAYSCALE"
	ColorPantone   ColorMode = "PANTONE"
)

// IsValid checks if the ColorMode is a valid value
func (c ColorMode) IsValid() bool {
	switch c {
	case ColorCMYK, ColorRGB, ColorGrayscale, ColorPantone:
		return true
	}
	return false
}

// PrintSides represents single or double sided printing
type PrintSides string

const (
	SidesSingle PrintSides = "SINGLE"
	SidesDouble PrintSides = "DOUBLE"
)

// IsValid checks if the PrintSides is a valid value
func (s PrintSides) IsValid() bool {
	return s == SidesSingle || s == SidesDouble
}

// Finishing represents a post-press treatment applied to the printed piece
type Finishing string

const (
	FinishLamination Finishing = "LAMINATION"
	FinishVarnish    Finishing = "VARNISH"
	FinishEmbossing  Finishing = "EMBOSSING"
	FinishFoiling    Finishing = "FOILING"
	FinishDieCutting Finishing = "DIE_CUTTING"
	FinishBinding    Finishing = "BINDING"
	FinishFolding    Finishing = "FOLDING"
)

// IsValid checks if the Finishing is a valid value
func (f Finishing) IsValid() bool {
	switch f {
	case FinishLamination, FinishVarnish, FinishEmbossing, FinishFoiling,
		FinishDieCutting, FinishBinding, FinishFolding:
		return true
	}
	return false
}

// Paper weight bounds in GSM. Zero means unspecified.
const (
	minPaperWeight = 80
	maxPaperWeight = 400
)

// Dimensions is the trim size of the printed piece
type Dimensions struct {
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Unit   SizeUnit `json:"unit"`
}

// Spec describes how a job is printed: trim size, stock, color space, sides,
// finishing treatments, bleed and artwork resolution. It is a value attached
// to the job, stored whole and never shared between jobs.
type Spec struct {
	Size          Dimensions  `json:"size"`
	PaperType     PaperType   `json:"paper_type"`
	PaperWeight   int         `json:"paper_weight,omitempty"`
	ColorMode     ColorMode   `json:"color_mode"`
	Sides         PrintSides  `json:"sides"`
	Finishing     []Finishing `json:"finishing,omitempty"`
	BleedMM       float64     `json:"bleed_mm"`
	ResolutionDPI int         `json:"resolution_dpi"`
}

// applyDefaults fills the fields the caller may leave out
func (s *Spec) applyDefaults() {
	if s.Size.Unit == "" {
		s.Size.Unit = UnitMillimeter
	}
	if s.ColorMode == "" {
		s.ColorMode = ColorCMYK
	}
	if s.Sides == "" {
		s.Sides = SidesSingle
	}
	if s.BleedMM == 0 {
		s.BleedMM = 3
	}
	if s.ResolutionDPI == 0 {
		s.ResolutionDPI = 300
	}
}

// Validate checks every field of the specification
func (s Spec) Validate() error {
	if s.Size.Width <= 0 || s.Size.Height <= 0 {
		return shared.NewDomainError(shared.CodeValidation, "Trim size must be positive in both dimensions")
	}
	if !s.Size.Unit.IsValid() {
		return shared.NewDomainError(shared.CodeValidation, "Invalid size unit")
	}
	if !s.PaperType.IsValid() {
		return shared.NewDomainError(shared.CodeValidation, "Invalid paper type")
	}
	if s.PaperWeight != 0 && (s.PaperWeight < minPaperWeight || s.PaperWeight > maxPaperWeight) {
		return shared.NewDomainError(shared.CodeValidation, "Paper weight must be between 80 and 400 GSM")
	}
	if !s.ColorMode.IsValid() {
		return shared.NewDomainError(shared.CodeValidation, "Invalid color mode")
	}
	if !s.Sides.IsValid() {
		return shared.NewDomainError(shared.CodeValidation, "Invalid print sides")
	}
	for _, f := range s.Finishing {
		if !f.IsValid() {
			return shared.NewDomainError(shared.CodeValidation, "Invalid finishing treatment: "+string(f))
		}
	}
	if s.BleedMM < 0 {
		return shared.NewDomainError(shared.CodeValidation, "Bleed cannot be negative")
	}
	if s.ResolutionDPI < 72 {
		return shared.NewDomainError(shared.CodeValidation, "Resolution must be at least 72 DPI")
	}
	return nil
}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (s Spec) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (s *Spec) Scan(value interface{}) error {
	if value == nil {
		*s = Spec{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Spec: unsupported type")
	}

	if len(bytes) == 0 {
		*s = Spec{}
		return nil
	}

	return json.Unmarshal(bytes, s)
}
