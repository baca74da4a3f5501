package nodeagent

import "encoding/json"

// LastJSONObject scans a raw log stream for the last complete top-level
// JSON object and unmarshals it into a Payload. The node-agent script may
// log progress lines before its final JSON dump, and a truncated tail
// (pod restarted mid-write) can leave a partial object at the very end, so
// this walks brace depth rather than assuming the payload is the whole
// stream or the last line.
//
// Bytes outside any "{...}" span are ignored. A string value's braces are
// tracked through quote and escape state so they never perturb depth.
func LastJSONObject(raw []byte) (Payload, bool) {
	var (
		depth     int
		start     = -1
		inString  bool
		escaped   bool
		lastStart = -1
		lastEnd   = -1
	)

	for i, c := range raw {
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					lastStart, lastEnd = start, i+1
					start = -1
				}
			}
		}
	}

	if lastStart < 0 {
		return Payload{}, false
	}

	var p Payload
	if err := json.Unmarshal(raw[lastStart:lastEnd], &p); err != nil {
		return Payload{}, false
	}
	if p.NodeName == "" {
		return Payload{}, false
	}
	return p, true
}
