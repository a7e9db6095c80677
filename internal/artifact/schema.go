package artifact

// Row types mirror the five parquet artifacts' column layouts. Each field's
// parquet tag fixes name, physical type, and nullability; list-valued
// columns use a repeated BYTE_ARRAY element, the simplest parquet-go
// encoding for list<string>.

// DrugRow is one row of data/clean/drugs.parquet.
type DrugRow struct {
	DrugID        string   `parquet:"name=drug_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	PreferredName string   `parquet:"name=preferred_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Synonyms      []string `parquet:"name=synonyms, type=LIST, valuetype=BYTE_ARRAY, valueconvertedtype=UTF8"`
	ExternalCode  string   `parquet:"name=external_code, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// EventRow is one row of data/clean/events.parquet.
type EventRow struct {
	EventID            string   `parquet:"name=event_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	RepresentativeTerm string   `parquet:"name=representative_term, type=BYTE_ARRAY, convertedtype=UTF8"`
	SurfaceForms       []string `parquet:"name=surface_forms, type=LIST, valuetype=BYTE_ARRAY, valueconvertedtype=UTF8"`
}

// ContingencyRow is one row of data/clean/faers_norm.parquet.
type ContingencyRow struct {
	DrugID      string `parquet:"name=drug_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	EventID     string `parquet:"name=event_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	YearQuarter string `parquet:"name=year_quarter, type=BYTE_ARRAY, convertedtype=UTF8"`
	A           int64  `parquet:"name=a, type=INT64"`
	B           int64  `parquet:"name=b, type=INT64"`
	C           int64  `parquet:"name=c, type=INT64"`
	D           int64  `parquet:"name=d, type=INT64"`
}

// RelationRow is one row of data/clean/relations.parquet.
type RelationRow struct {
	PMID       string  `parquet:"name=pmid, type=BYTE_ARRAY, convertedtype=UTF8"`
	SentenceID string  `parquet:"name=sentence_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	DrugID     string  `parquet:"name=drug_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	EventID    string  `parquet:"name=event_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Confidence float64 `parquet:"name=confidence, type=DOUBLE"`
	Polarity   string  `parquet:"name=polarity, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// ClusterRow is one row of data/clean/event_clusters.parquet.
type ClusterRow struct {
	EventID               string  `parquet:"name=event_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	ClusterID             int32   `parquet:"name=cluster_id, type=INT32"`
	RepresentativeEventID string  `parquet:"name=representative_event_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Cohesion              float64 `parquet:"name=cohesion, type=DOUBLE"`
}
