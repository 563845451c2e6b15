package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postingHTML = `
<html>
	<head>
		<title>Careers | Acme</title>
		<meta property="og:title" content="Senior  Platform Engineer">
		<meta property="og:site_name" content="Acme">
	</head>
	<body>
		<nav>Jobs Home</nav>
		<main>
			<h1>Senior Platform Engineer</h1>
			<p>Run Kubernetes clusters.</p>
			<ul><li>Python</li><li>Terraform</li></ul>
			<form>Apply now</form>
		</main>
		<footer>Copyright</footer>
	</body>
</html>`

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "text/html", result.ContentType)
}

func TestURL_InvalidURL(t *testing.T) {
	for _, raw := range []string{"not-a-valid-url", "ftp://example.com/job", "http://"} {
		_, err := URL(context.Background(), raw, nil)
		require.Error(t, err, raw)

		var fetchErr *Error
		assert.ErrorAs(t, err, &fetchErr)
		assert.Contains(t, err.Error(), "invalid URL")
	}
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestURL_LimitsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 100)))
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.MaxBytes = 10
	result, err := URL(context.Background(), server.URL, opts)
	require.NoError(t, err)
	assert.Len(t, result.HTML, 10)
}

func TestJobPosting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(postingHTML))
	}))
	defer server.Close()

	job, err := JobPosting(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "Senior Platform Engineer", job.Title)
	assert.Equal(t, "Acme", job.Company)
	assert.Contains(t, job.Description, "Run Kubernetes clusters.")
	assert.Contains(t, job.Description, "Terraform")
	assert.NotContains(t, job.Description, "Apply now")
	assert.NotContains(t, job.Description, "Jobs Home")
	assert.NoError(t, job.Validate())
}

func TestExtractJobPosting_FallsBackToBody(t *testing.T) {
	job, err := ExtractJobPosting(`<html><head><title> Data Analyst </title></head><body><p>SQL and dashboards</p></body></html>`, PlatformUnknown)
	require.NoError(t, err)
	assert.Equal(t, "Data Analyst", job.Title)
	assert.Equal(t, "SQL and dashboards", job.Description)
}

func TestExtractJobPosting_PlatformSelectors(t *testing.T) {
	html := `<body><div class="intro">Join us</div><div class="job__description">Build ledgers</div></body>`

	job, err := ExtractJobPosting(html, PlatformGreenhouse)
	require.NoError(t, err)
	assert.Equal(t, "Build ledgers", job.Description)
}

func TestExtractJobPosting_NoContent(t *testing.T) {
	_, err := ExtractJobPosting(`<html><body><nav>Menu</nav></body></html>`, PlatformUnknown)
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestCleanWhitespace(t *testing.T) {
	assert.Equal(t, "a b\nc", cleanWhitespace("  a   b \n\n\t\n c  "))
}
