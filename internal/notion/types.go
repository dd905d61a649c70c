package notion

// Wire shapes for the subset of the Notion API the bridge touches.

type databaseResponse struct {
	Object      string       `json:"object"`
	ID          string       `json:"id"`
	DataSources []dataSource `json:"data_sources"`
}

type dataSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type queryRequest struct {
	Filter queryFilter `json:"filter"`
}

type queryFilter struct {
	Property string         `json:"property"`
	UniqueID uniqueIDFilter `json:"unique_id"`
}

type uniqueIDFilter struct {
	Equals int `json:"equals"`
}

type queryResponse struct {
	Results []queryResult `json:"results"`
}

type queryResult struct {
	ID string `json:"id"`
}

type pageResponse struct {
	ID         string                  `json:"id"`
	Properties map[string]pageProperty `json:"properties"`
}

type pageProperty struct {
	Files []fileAttachment `json:"files"`
}

// fileAttachment is one entry of a files property. Exactly one of External
// and File is set, matching the API's external/file variants.
type fileAttachment struct {
	Type     string        `json:"type,omitempty"`
	Name     string        `json:"name,omitempty"`
	External *externalFile `json:"external,omitempty"`
	File     *hostedFile   `json:"file,omitempty"`
}

type externalFile struct {
	URL string `json:"url"`
}

type hostedFile struct {
	URL        string `json:"url"`
	ExpiryTime string `json:"expiry_time,omitempty"`
}

type pageUpdateRequest struct {
	Properties map[string]any `json:"properties"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// url returns the attachment's URL regardless of variant.
func (f fileAttachment) url() string {
	if f.External != nil {
		return f.External.URL
	}
	if f.File != nil {
		return f.File.URL
	}
	return ""
}
