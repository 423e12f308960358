package main

import (
	_ "embed"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/secom-mes/mes-engine/pkg/models"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog is the reference data the loader seeds and assigns lots against.
type Catalog struct {
	Shifts            []ShiftSpec      `yaml:"shifts"`
	Products          []ProductSpec    `yaml:"products"`
	Equipment         []EquipmentSpec  `yaml:"equipment"`
	Operators         []OperatorSpec   `yaml:"operators"`
	FeatureCategories []CategorySpec   `yaml:"feature_categories"`
	CriticalEvery     int              `yaml:"critical_every"`
	DefectTypes       []DefectTypeSpec `yaml:"defect_types"`
	ModelVersion      string           `yaml:"model_version"`
}

type ShiftSpec struct {
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	Start       string `yaml:"start"`
	End         string `yaml:"end"`
	Description string `yaml:"description"`
}

type ProductSpec struct {
	Code        string  `yaml:"code"`
	Name        string  `yaml:"name"`
	Family      string  `yaml:"family"`
	TargetYield float64 `yaml:"target_yield"`
	Spec        string  `yaml:"spec"`
	Weight      int     `yaml:"weight"`
}

type EquipmentSpec struct {
	Code         string `yaml:"code"`
	Name         string `yaml:"name"`
	Type         string `yaml:"type"`
	Location     string `yaml:"location"`
	Manufacturer string `yaml:"manufacturer"`
	InstallDate  string `yaml:"install_date"`
	Weight       int    `yaml:"weight"`
}

type OperatorSpec struct {
	Code           string `yaml:"code"`
	Name           string `yaml:"name"`
	EmployeeNumber string `yaml:"employee_number"`
	Department     string `yaml:"department"`
	Shift          string `yaml:"shift"`
	HireDate       string `yaml:"hire_date"`
	Inspector      bool   `yaml:"inspector"`
}

type CategorySpec struct {
	Name  string            `yaml:"name"`
	Stage string            `yaml:"stage"`
	First int               `yaml:"first"`
	Last  int               `yaml:"last"`
	Types []MeasurementSpec `yaml:"types"`
}

type MeasurementSpec struct {
	Name string  `yaml:"name"`
	Unit string  `yaml:"unit"`
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
}

type DefectTypeSpec struct {
	Name   string   `yaml:"name"`
	Weight float64  `yaml:"weight"`
	Notes  []string `yaml:"notes"`
}

// loadCatalog parses and checks the embedded catalog.
func loadCatalog() (*Catalog, error) {
	return parseCatalog(catalogYAML)
}

func parseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Shifts) == 0 || len(c.Products) == 0 || len(c.Equipment) == 0 || len(c.Operators) == 0 {
		return errors.New("shifts, products, equipment and operators must all be non-empty")
	}
	if len(c.DefectTypes) == 0 {
		return errors.New("at least one defect type is required")
	}

	shifts := make(map[string]bool, len(c.Shifts))
	for _, s := range c.Shifts {
		if _, err := parseClock(s.Start); err != nil {
			return fmt.Errorf("shift %s: %w", s.Code, err)
		}
		if _, err := parseClock(s.End); err != nil {
			return fmt.Errorf("shift %s: %w", s.Code, err)
		}
		shifts[s.Code] = true
	}
	for hour := range 24 {
		if _, err := c.shiftForHour(hour); err != nil {
			return err
		}
	}

	staffed := make(map[string]bool)
	for _, o := range c.Operators {
		if !shifts[o.Shift] {
			return fmt.Errorf("operator %s: unknown shift %q", o.Code, o.Shift)
		}
		staffed[o.Shift] = true
	}
	for code := range shifts {
		if !staffed[code] {
			return fmt.Errorf("shift %s has no operators", code)
		}
	}
	if len(c.inspectors()) == 0 {
		return errors.New("at least one operator must be an inspector")
	}

	for _, p := range c.Products {
		if p.Weight < 1 {
			return fmt.Errorf("product %s: weight must be positive", p.Code)
		}
	}
	for _, e := range c.Equipment {
		if e.Weight < 1 {
			return fmt.Errorf("equipment %s: weight must be positive", e.Code)
		}
		if _, err := models.ParseDate(e.InstallDate); err != nil {
			return fmt.Errorf("equipment %s: %w", e.Code, err)
		}
	}

	next := 0
	for _, cat := range c.FeatureCategories {
		if cat.First != next || cat.Last < cat.First || len(cat.Types) == 0 {
			return fmt.Errorf("feature category %s must cover columns from %d with at least one type", cat.Name, next)
		}
		next = cat.Last + 1
	}
	if next != secomFeatureCount {
		return fmt.Errorf("feature categories cover %d columns, want %d", next, secomFeatureCount)
	}
	if c.CriticalEvery < 1 {
		return errors.New("critical_every must be positive")
	}
	return nil
}

// parseClock parses "HH:MM:SS" into an offset from midnight.
func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse(time.TimeOnly, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second, nil
}

// shiftForHour returns the shift covering hour. A shift whose end is not
// after its start wraps past midnight.
func (c *Catalog) shiftForHour(hour int) (string, error) {
	at := time.Duration(hour) * time.Hour
	for _, s := range c.Shifts {
		start, _ := parseClock(s.Start)
		end, _ := parseClock(s.End)
		if start < end {
			if at >= start && at < end {
				return s.Code, nil
			}
		} else if at >= start || at < end {
			return s.Code, nil
		}
	}
	return "", fmt.Errorf("no shift covers hour %d", hour)
}

// operatorsByShift lists operator codes per shift in catalog order.
func (c *Catalog) operatorsByShift() map[string][]string {
	out := make(map[string][]string, len(c.Shifts))
	for _, o := range c.Operators {
		out[o.Shift] = append(out[o.Shift], o.Code)
	}
	return out
}

func (c *Catalog) inspectors() []string {
	var codes []string
	for _, o := range c.Operators {
		if o.Inspector {
			codes = append(codes, o.Code)
		}
	}
	return codes
}

// features expands the categories into one catalog entry per SECOM column.
func (c *Catalog) features() []*models.FeatureMeta {
	out := make([]*models.FeatureMeta, 0, secomFeatureCount)
	for _, cat := range c.FeatureCategories {
		for col := cat.First; col <= cat.Last; col++ {
			typeIdx := col % len(cat.Types)
			mt := cat.Types[typeIdx]

			zone := fmt.Sprintf("Sensor_%d", col%10)
			switch {
			case col < 10:
				zone = "Zone_A"
			case col < 20:
				zone = "Zone_B"
			}

			out = append(out, &models.FeatureMeta{
				Code:            featureCode(col),
				Name:            fmt.Sprintf("%s_%s_%d", cat.Name, mt.Name, typeIdx+1),
				Category:        cat.Name,
				ProcessStage:    ptr(cat.Stage),
				MeasurementType: ptr(mt.Name),
				Unit:            ptr(mt.Unit),
				NormalRangeMin:  ptr(mt.Min),
				NormalRangeMax:  ptr(mt.Max),
				Description:     ptr(fmt.Sprintf("%s %s measurement from %s", cat.Stage, mt.Name, zone)),
				IsCritical:      col%c.CriticalEvery == 0,
			})
		}
	}
	return out
}

func featureCode(col int) string {
	return fmt.Sprintf("F%d", col)
}

func ptr[T any](v T) *T {
	return &v
}
