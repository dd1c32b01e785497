package formdata

import (
	"fmt"
	"sort"
)

// BuildHeaderLines rebuilds a part's header lines from its fixed fields. It
// is used by the re-emitter whenever a part has no HeaderLines of its own -
// including whenever a transform left both HeaderLines and mutated fixed
// fields on the same part: the fixed fields are taken as authoritative and
// HeaderLines is always regenerated from them rather than trusted verbatim.
func BuildHeaderLines(p *Part) []string {
	var lines []string

	disp := fmt.Sprintf(`Content-Disposition: form-data; name="%s"`, escapeParamValue(p.Name))
	if p.Filename != "" {
		disp += fmt.Sprintf(`; filename="%s"`, escapeParamValue(p.Filename))
	}
	lines = append(lines, disp)

	if p.ContentType != "" {
		lines = append(lines, "Content-Type: "+p.ContentType)
	}

	names := make([]string, 0, len(p.ExtraHeaders))
	for name := range p.ExtraHeaders {
		if len(name) > 2 && name[0] == 'x' && name[1] == '-' {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		lines = append(lines, name+": "+p.ExtraHeaders[name])
	}

	if p.ContentLength != "" {
		lines = append(lines, "Content-Length: "+p.ContentLength)
	}

	return lines
}
