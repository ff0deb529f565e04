package harness

import (
	"net/http"
	"sort"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/shiva-pdv/api-contract-tests/logging"
)

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// curlCommand renders an equivalent curl invocation for a request, for debug output. The
// bearer token is masked.
func curlCommand(method, url string, headers http.Header, body []byte) string {
	var b commandBuilder
	b.add("curl", "-sS", "-X", method)
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range headers[name] {
			if strings.EqualFold(name, "Authorization") {
				value = logging.MaskSecrets(value)
			}
			b.add("-H", name+": "+value)
		}
	}
	if len(body) > 0 {
		b.add("--data-raw", string(body))
	}
	b.add(url)
	return b.String()
}
