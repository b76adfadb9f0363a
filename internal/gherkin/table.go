package gherkin

// The formatters shape a step's DataTable for step handlers. They never
// modify the table.

// FirstRowAsKeys turns every row after the first into a record keyed by
// the first row.
func (t *DataTable) FirstRowAsKeys() ([]map[string]string, error) {
	return FirstRowAsKeys(t.Rows)
}

func (t *DataTable) FirstColumnAsKeys() (map[string][]string, error) {
	return FirstColumnAsKeys(t.Rows)
}

func (t *DataTable) FirstColumnAsKeysAndFirstRowAsPropertyNames() (map[string]map[string]string, error) {
	return FirstColumnAsKeysAndFirstRowAsPropertyNames(t.Rows)
}

func (t *DataTable) KeyValueMap() (map[string]string, error) {
	return KeyValueMap(t.Rows)
}

func (t *DataTable) List() []string {
	return List(t.Rows)
}

func FirstRowAsKeys(rows [][]string) ([]map[string]string, error) {
	const name = "FirstRowAsKeys"
	if len(rows) == 0 {
		return nil, &FormatError{Formatter: name, Reason: "the table contains no rows"}
	}
	keys := rows[0]
	if err := checkWidth(name, keys, rows[1:]); err != nil {
		return nil, err
	}
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(keys))
		for i, k := range keys {
			record[k] = row[i]
		}
		records = append(records, record)
	}
	return records, nil
}

// FirstColumnAsKeys maps the first cell of each row to the rest of the row.
// A repeated key keeps its last row.
func FirstColumnAsKeys(rows [][]string) (map[string][]string, error) {
	out := make(map[string][]string, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			return nil, &FormatError{Formatter: "FirstColumnAsKeys", Reason: "one or more rows have no values"}
		}
		out[row[0]] = append([]string(nil), row[1:]...)
	}
	return out, nil
}

// FirstColumnAsKeysAndFirstRowAsPropertyNames keys records by their first
// cell and names the remaining cells after the header row.
func FirstColumnAsKeysAndFirstRowAsPropertyNames(rows [][]string) (map[string]map[string]string, error) {
	const name = "FirstColumnAsKeysAndFirstRowAsPropertyNames"
	if len(rows) == 0 {
		return nil, &FormatError{Formatter: name, Reason: "the table contains no rows"}
	}
	header := rows[0]
	if err := checkWidth(name, header, rows[1:]); err != nil {
		return nil, err
	}
	out := make(map[string]map[string]string, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			return nil, &FormatError{Formatter: name, Reason: "one or more rows have no values"}
		}
		props := make(map[string]string, len(header)-1)
		for i := 1; i < len(header); i++ {
			props[header[i]] = row[i]
		}
		out[row[0]] = props
	}
	return out, nil
}

func KeyValueMap(rows [][]string) (map[string]string, error) {
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		if len(row) != 2 {
			return nil, &FormatError{Formatter: "KeyValueMap", Reason: "not all the rows have exactly 2 values (key, value)"}
		}
		out[row[0]] = row[1]
	}
	return out, nil
}

// List flattens the table row by row.
func List(rows [][]string) []string {
	out := []string{}
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}

func checkWidth(formatter string, header []string, rows [][]string) error {
	for _, row := range rows {
		if len(row) != len(header) {
			return &FormatError{Formatter: formatter, Reason: "not all the rows have the same number of values"}
		}
	}
	return nil
}
