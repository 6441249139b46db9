package docgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeShareURLDriveFile(t *testing.T) {
	got := NormalizeShareURL("https://drive.google.com/file/d/1AbC_d-EF9/view?usp=sharing")
	assert.Equal(t, "https://docs.google.com/document/d/1AbC_d-EF9/export?format=docx", got)
}

func TestNormalizeShareURLDriveOpenParam(t *testing.T) {
	got := NormalizeShareURL("https://drive.google.com/open?id=1AbC_d-EF9")
	assert.Equal(t, "https://docs.google.com/document/d/1AbC_d-EF9/export?format=docx", got)
}

func TestNormalizeShareURLDocsEditLink(t *testing.T) {
	got := NormalizeShareURL("https://docs.google.com/document/d/1AbC_d-EF9/edit#heading=h.1")
	assert.Equal(t, "https://docs.google.com/document/d/1AbC_d-EF9/export?format=docx", got)
}

func TestNormalizeShareURLDropbox(t *testing.T) {
	got := NormalizeShareURL("https://www.dropbox.com/s/abc/ticket.docx?dl=0")
	assert.Equal(t, "https://www.dropbox.com/s/abc/ticket.docx?dl=1", got)
}

func TestNormalizeShareURLPassThrough(t *testing.T) {
	direct := "https://files.example.com/templates/ticket.docx"
	assert.Equal(t, direct, NormalizeShareURL(direct))
	assert.Equal(t, "", NormalizeShareURL(""))
}
