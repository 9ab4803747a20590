package stopreports

import "encoding/json"

// flexString decodes JSON values that arrive as either strings or bare
// numbers. The upstream API is inconsistent about numeric columns like
// Vehicle and Route.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	if string(b) == "null" {
		*s = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

// StopReport is one row as returned by the StopReports API.
type StopReport struct {
	Vehicle   flexString `json:"Vehicle"`
	Block     flexString `json:"Block"`
	Route     flexString `json:"Route"`
	Trip      flexString `json:"Trip"`
	StopName  string     `json:"Stop_Name"`
	Direction string     `json:"Direction"`
	Timestamp string     `json:"Timestamp"`
}

// envelope mirrors the API response shape.
type envelope struct {
	Result struct {
		StopReports []StopReport `json:"Stop Reports"`
	} `json:"result"`
}
