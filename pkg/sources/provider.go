package sources

import (
	"fmt"
	"net/netip"
	"net/url"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Provider maps a lowercase URL substring to the display name of a hosting provider.
type Provider struct {
	Pattern string
	Name    string
}

// providers is checked top to bottom and the first match wins, so branded
// subdomains and longer host names must come before anything they contain.
var providers = []Provider{
	{"sibnet", "Sibnet"},
	{"vidmoly", "Vidmoly"},
	{"vudeo", "Vudeo"},
	{"sendvid", "SendVid"},
	{"myvidplay", "MyVidPlay"},
	{"myvi.", "MyVi"},
	{"my.mail.ru", "MailRu"},
	{"doodstream", "DoodStream"},
	{"dood.", "DoodStream"},
	{"ds2play", "DoodStream"},
	{"streamtape", "Streamtape"},
	{"uqload", "Uqload"},
	{"voe.sx", "Voe"},
	{"mixdrop", "Mixdrop"},
	{"filemoon", "Filemoon"},
	{"streamwish", "StreamWish"},
	{"wishfast", "StreamWish"},
	{"lulustream", "LuluStream"},
	{"luluvdo", "LuluStream"},
	{"vidhide", "VidHide"},
	{"smoothpre", "SmoothPre"},
	{"movearnpre", "MoveArnPre"},
	{"mivalyo", "Mivalyo"},
	{"embed4me", "Embed4me"},
	{"oneupload", "OneUpload"},
	{"uptostream", "Uptostream"},
	{"upstream.to", "Upstream"},
	{"streamsb", "StreamSB"},
	{"vidguard", "VidGuard"},
	{"vidoza", "Vidoza"},
	{"videovard", "VideoVard"},
	{"fembed", "Fembed"},
	{"drive.google.com", "Google Drive"},
	{"docs.google.com", "Google Drive"},
	{"youtube.com", "YouTube"},
	{"youtu.be", "YouTube"},
	{"dailymotion", "Dailymotion"},
	{"dai.ly", "Dailymotion"},
	{"vkvideo.ru", "VK"},
	{"://vk.com", "VK"},
	{"://ok.ru", "OK.ru"},
	{"odnoklassniki", "OK.ru"},
	{"rutube", "Rutube"},
	{"mega.nz", "Mega"},
	{"streamable", "Streamable"},
	{"player.vimeo.com", "Vimeo"},
}

func init() {
	if err := ValidateTable(providers); err != nil {
		panic(err)
	}
}

// Providers returns a copy of the built-in provider table in match order.
func Providers() []Provider {
	return slices.Clone(providers)
}

// ValidateTable checks that every entry is reachable: patterns must be
// lowercase and non-empty, and no pattern may contain one listed before it.
func ValidateTable(table []Provider) error {
	for j, p := range table {
		if p.Pattern == "" || p.Name == "" {
			return fmt.Errorf("provider table entry %d: pattern and name are required", j)
		}
		if p.Pattern != strings.ToLower(p.Pattern) {
			return fmt.Errorf("provider %q: pattern %q must be lowercase", p.Name, p.Pattern)
		}
		for i := 0; i < j; i++ {
			if strings.Contains(p.Pattern, table[i].Pattern) {
				return fmt.Errorf("provider %q (pattern %q) is unreachable: shadowed by %q (pattern %q)",
					p.Name, p.Pattern, table[i].Name, table[i].Pattern)
			}
		}
	}
	return nil
}

// DetectProvider returns a display name for the host serving rawURL.
// Known hosts are matched against the provider table; anything else is named
// after the first label of its hostname. Returns "" when nothing usable is found.
func DetectProvider(rawURL string) string {
	return detectProvider(providers, rawURL)
}

func detectProvider(table []Provider, rawURL string) string {
	lower := strings.ToLower(rawURL)
	for _, p := range table {
		if strings.Contains(lower, p.Pattern) {
			return p.Name
		}
	}
	return hostLabel(rawURL)
}

var hostPrefixes = []string{"www.", "player.", "embed."}

func hostLabel(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	// IP literals name no provider.
	if _, err := netip.ParseAddr(host); err == nil {
		return ""
	}
	for _, prefix := range hostPrefixes {
		if strings.HasPrefix(host, prefix) {
			host = strings.TrimPrefix(host, prefix)
			break
		}
	}
	label, _, _ := strings.Cut(host, ".")
	if len(label) <= 1 || !strings.ContainsFunc(label, unicode.IsLetter) {
		return ""
	}
	return titleCase(label)
}

// titleCase builds a fresh Caser per call; Casers keep state and are not
// safe to share between goroutines.
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}
