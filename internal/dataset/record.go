package dataset

// CleanedListing is the typed view of one normalized row.
// Nil numeric fields and empty strings are missing values.
type CleanedListing struct {
	URL           string   `json:"url"`
	Manuf         string   `json:"manuf"`
	Model         string   `json:"model"`
	Year          *int     `json:"year"`
	Month         string   `json:"month"`
	MotorSize     string   `json:"motor_size"`
	MotorFuelType string   `json:"motor_fuel_type"`
	Transmission  string   `json:"transmission"`
	MileageAmount *float64 `json:"mileage_amount"`
	Color         string   `json:"color"`
	BodyType      string   `json:"body_type"`
	PriceAmount   *float64 `json:"price_amount"`
}

// Records converts a normalized table into typed listings.
// Columns are looked up by canonical name; absent columns yield missing values.
func (t *Table) Records() []CleanedListing {
	col := func(name string) int { return t.ColumnIndex(CanonicalName(name)) }
	var (
		url       = col(ColumnURL)
		manuf     = col(ColumnManuf)
		model     = col(ColumnModel)
		year      = col(ColumnYearNumber)
		month     = col(ColumnMonth)
		motorSize = col(ColumnMotorSize)
		fuel      = col(ColumnMotorFuelType)
		gearbox   = col(ColumnTransmission)
		mileage   = col(ColumnMileageAmount)
		color     = col(ColumnColor)
		body      = col(ColumnBodyType)
		price     = col(ColumnPriceAmount)
	)

	records := make([]CleanedListing, 0, len(t.rows))
	for _, row := range t.rows {
		text := func(idx int) string {
			if idx < 0 {
				return ""
			}
			return row[idx].String()
		}
		number := func(idx int) *float64 {
			if idx < 0 {
				return nil
			}
			if f, ok := row[idx].Number(); ok {
				return &f
			}
			return nil
		}

		rec := CleanedListing{
			URL:           text(url),
			Manuf:         text(manuf),
			Model:         text(model),
			Month:         text(month),
			MotorSize:     text(motorSize),
			MotorFuelType: text(fuel),
			Transmission:  text(gearbox),
			MileageAmount: number(mileage),
			Color:         text(color),
			BodyType:      text(body),
			PriceAmount:   number(price),
		}
		if y := number(year); y != nil {
			v := int(*y)
			rec.Year = &v
		}
		records = append(records, rec)
	}
	return records
}
