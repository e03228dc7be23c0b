package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://video.sibnet.ru/shell.php?videoid=4242", "Sibnet"},
		{"https://sibnet.ru/v/1", "Sibnet"},
		{"https://VIDMOLY.to/embed-abc.html", "Vidmoly"},
		{"https://vudeo.net/embed-1.html", "Vudeo"},
		{"https://myvidplay.com/e/1", "MyVidPlay"},
		{"https://myvi.top/embed/1", "MyVi"},
		{"https://drive.google.com/file/d/1/preview", "Google Drive"},
		{"https://ok.ru/videoembed/1", "OK.ru"},
		// hostname fallback
		{"https://vidomly.com/e/1", "Vidomly"},
		{"https://www.example.org/watch", "Example"},
		{"https://player.somehost.tv/x", "Somehost"},
		{"https://embed.foo.io/v/2", "Foo"},
		{"https://x.io/1", ""},
		{"http://192.168.0.1/embed/1", ""},
		{"http://[::1]:8080/v/1", ""},
		{"http://[fe80::abcd]/v/1", ""},
		{"::not a url", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectProvider(tt.url))
		})
	}
}

func TestDetectProvider_FirstPatternWins(t *testing.T) {
	table := []Provider{
		{"a.com", "First"},
		{"b.com", "Second"},
	}
	for i := 0; i < 50; i++ {
		require.Equal(t, "First", detectProvider(table, "https://a.com/?next=b.com"))
	}
	assert.Equal(t, "Second", detectProvider(table, "https://b.com/?next=c.com"))
}

func TestValidateTable_BuiltIn(t *testing.T) {
	require.NoError(t, ValidateTable(Providers()))
}

func TestValidateTable_Shadowed(t *testing.T) {
	table := []Provider{
		{"google.com", "Google"},
		{"drive.google.com", "Google Drive"},
	}
	err := ValidateTable(table)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Google Drive")

	// Specific before generic is fine.
	table[0], table[1] = table[1], table[0]
	assert.NoError(t, ValidateTable(table))
}

func TestValidateTable_BadEntries(t *testing.T) {
	assert.Error(t, ValidateTable([]Provider{{"", "Empty"}}))
	assert.Error(t, ValidateTable([]Provider{{"host", ""}}))
	assert.Error(t, ValidateTable([]Provider{{"Upper.com", "Upper"}}))
}

func TestProviders_ReturnsCopy(t *testing.T) {
	p := Providers()
	p[0].Name = "changed"
	assert.NotEqual(t, "changed", Providers()[0].Name)
}
