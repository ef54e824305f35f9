package dataset

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// NotAvailable is the extractor's marker for a field absent in the markup.
// It never survives Normalize.
const NotAvailable = "NA"

// Raw column names, as produced by the dataset builder
const (
	ColumnURL          = "URL"
	ColumnManuf        = "Manuf"
	ColumnModel        = "Model"
	ColumnYear         = "Year"
	ColumnMotorType    = "Motor Type"
	ColumnTransmission = "Transmission"
	ColumnMileage      = "Mileage"
	ColumnColor        = "Color"
	ColumnBodyType     = "Body Type"
	ColumnPrice        = "Price"
)

// Derived column names
const (
	ColumnPriceAmount   = "price_amount"
	ColumnMileageAmount = "mileage_amount"
	ColumnMotorSize     = "motor_size"
	ColumnMotorFuelType = "motor_fuel_type"
	ColumnYearNumber    = "year"
	ColumnMonth         = "month"
)

// RawColumns is the column order of a freshly built dataset
var RawColumns = []string{
	ColumnURL, ColumnManuf, ColumnModel, ColumnYear, ColumnMotorType,
	ColumnTransmission, ColumnMileage, ColumnColor, ColumnBodyType, ColumnPrice,
}

const currencyDelimiter = "€"

// Normalize returns a cleaned copy of t. The steps run in a fixed order and
// each one is skipped when its source column is absent, so normalizing an
// already normalized table changes nothing. Unparseable values become
// missing cells; Normalize never fails.
func Normalize(t *Table) *Table {
	out := t.Clone()

	translateNotAvailable(out)
	splitPrice(out)
	addMileageAmount(out)
	splitMotorType(out)
	splitYear(out)
	coerceNumeric(out)
	out.DropColumn(ColumnMileage)
	CanonicalizeColumns(out)

	return out
}

// translateNotAvailable turns the "NA" marker and blank text into missing cells
func translateNotAvailable(t *Table) {
	for _, row := range t.rows {
		for i, c := range row {
			if c.kind != Text {
				continue
			}
			s := strings.TrimSpace(c.text)
			if s == "" || s == NotAvailable {
				row[i] = MissingCell()
			}
		}
	}
}

// splitPrice keeps the amount in front of the currency sign
func splitPrice(t *Table) {
	t.SplitColumn(ColumnPrice, []string{ColumnPriceAmount}, func(c Cell) []Cell {
		if c.kind != Text {
			return []Cell{c}
		}
		amount, _, _ := strings.Cut(c.text, currencyDelimiter)
		return []Cell{textOrMissing(amount)}
	})
}

// addMileageAmount strips thousands separators from Mileage
func addMileageAmount(t *Table) {
	t.InsertAfter(ColumnMileage, ColumnMileageAmount, func(c Cell) Cell {
		if c.kind != Text {
			return c
		}
		return textOrMissing(stripSeparators(c.text))
	})
}

// splitMotorType splits "2.0 Benzīns" into size and fuel type at the first whitespace rune
func splitMotorType(t *Table) {
	t.SplitColumn(ColumnMotorType, []string{ColumnMotorSize, ColumnMotorFuelType}, func(c Cell) []Cell {
		if c.kind != Text {
			return []Cell{MissingCell(), MissingCell()}
		}
		s := strings.TrimSpace(c.text)
		i := strings.IndexFunc(s, unicode.IsSpace)
		if i < 0 {
			return []Cell{textOrMissing(s), MissingCell()}
		}
		return []Cell{textOrMissing(s[:i]), textOrMissing(s[i:])}
	})
}

// splitYear splits "2015 05" or "2015 / 05" into year and month
func splitYear(t *Table) {
	t.SplitColumn(ColumnYear, []string{ColumnYearNumber, ColumnMonth}, func(c Cell) []Cell {
		if c.kind != Text {
			return []Cell{c, MissingCell()}
		}
		tokens := strings.FieldsFunc(c.text, func(r rune) bool {
			return unicode.IsSpace(r) || r == '/'
		})
		switch len(tokens) {
		case 0:
			return []Cell{MissingCell(), MissingCell()}
		case 1:
			return []Cell{TextCell(tokens[0]), MissingCell()}
		default:
			return []Cell{TextCell(tokens[0]), TextCell(tokens[1])}
		}
	})
}

func coerceNumeric(t *Table) {
	t.MapColumn(ColumnYearNumber, func(c Cell) Cell {
		if c.kind != Text {
			return c
		}
		year, err := strconv.Atoi(stripSeparators(c.text))
		if err != nil {
			return MissingCell()
		}
		return NumberCell(float64(year))
	})
	t.MapColumn(ColumnMileageAmount, coerceFloat)
	t.MapColumn(ColumnPriceAmount, coerceFloat)
}

func coerceFloat(c Cell) Cell {
	if c.kind != Text {
		return c
	}
	f, err := strconv.ParseFloat(stripSeparators(c.text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return MissingCell()
	}
	return NumberCell(f)
}

// CanonicalName lower-cases a column name and joins its words with underscores
func CanonicalName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

// CanonicalizeColumns renames every column to its canonical name
func CanonicalizeColumns(t *Table) {
	t.RenameColumns(CanonicalName)
}

// stripSeparators removes whitespace (including no-break spaces), commas and
// apostrophes used as thousands separators
func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == ',' || r == '\'' {
			return -1
		}
		return r
	}, s)
}

func textOrMissing(s string) Cell {
	s = strings.TrimSpace(s)
	if s == "" {
		return MissingCell()
	}
	return TextCell(s)
}
