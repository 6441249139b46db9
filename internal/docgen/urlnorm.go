// Package docgen fills ticket and manifest docx templates with passenger
// and flight data. Templates are fetched by URL through an ordered chain
// of fetch strategies and may be cloud-storage share links, which are
// normalised to direct-download form first.
package docgen

import (
	"regexp"
	"strings"
)

var (
	drivePathID  = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)
	driveParamID = regexp.MustCompile(`id=([a-zA-Z0-9_-]+)`)
)

// NormalizeShareURL converts Google Drive/Docs and Dropbox share links
// into direct-download URLs. Anything unrecognised is returned unchanged.
//
// Drive/Docs forms handled:
//
//	https://drive.google.com/file/d/FILE_ID/view...
//	https://drive.google.com/open?id=FILE_ID
//	https://docs.google.com/document/d/FILE_ID/edit...
//
// All resolve to the Docs export endpoint, which serves both native Docs
// and stored .docx files. Dropbox links have dl=0 flipped to dl=1.
func NormalizeShareURL(url string) string {
	if url == "" {
		return ""
	}

	if strings.Contains(url, "drive.google.com") || strings.Contains(url, "docs.google.com") {
		fileID := ""
		if m := drivePathID.FindStringSubmatch(url); len(m) == 2 {
			fileID = m[1]
		} else if m := driveParamID.FindStringSubmatch(url); len(m) == 2 {
			fileID = m[1]
		}
		if fileID != "" {
			return "https://docs.google.com/document/d/" + fileID + "/export?format=docx"
		}
	}

	if strings.Contains(url, "dropbox.com") && strings.Contains(url, "dl=0") {
		return strings.Replace(url, "dl=0", "dl=1", 1)
	}

	return url
}
