package report

import "encoding/json"

// RenderJSON is a direct structural dump of ClusterReport (§4.6).
func RenderJSON(r *ClusterReport) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
