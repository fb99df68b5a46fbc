package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/contactform/internal/form"
	"github.com/muurk/contactform/internal/submission"
	"github.com/muurk/contactform/internal/validation"
)

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func newTestServer(t *testing.T, opts form.Options) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := New(&Config{DefaultProfile: form.ProfileClassic, Session: opts})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv, ts
}

func get(t *testing.T, rawURL string) (int, string) {
	t.Helper()
	resp, err := http.Get(rawURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestNew_UnknownDefaultProfile(t *testing.T) {
	_, err := New(&Config{DefaultProfile: "wizard"})
	require.Error(t, err)
	assert.ErrorIs(t, err, form.ErrUnknownProfile)
}

func TestFormPages(t *testing.T) {
	_, ts := newTestServer(t, form.Options{})

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   []string
	}{
		{"index serves classic", "/", http.StatusOK, []string{"Name", "Email", "Password", "Comments", "Country", "Albania", "Kynea", "Canada", "Other", "Gender", "Male", "Female", "Human", "AI", `data-ws="/forms/classic/ws"`}},
		{"async profile", "/forms/async", http.StatusOK, []string{"Text Input", "Email Input", "Option 3", "Checkbox"}},
		{"unknown profile", "/forms/wizard", http.StatusNotFound, nil},
		{"health", "/healthz", http.StatusOK, []string{"ok"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, ts.URL+tt.path)
			assert.Equal(t, tt.wantStatus, status)
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want)
			}
		})
	}
}

func TestFormPage_EnterBoundToForm(t *testing.T) {
	_, ts := newTestServer(t, form.Options{})
	_, body := get(t, ts.URL+"/")

	assert.Contains(t, body, `form.addEventListener("keydown"`)
	assert.NotContains(t, body, `document.addEventListener("keypress"`)
}

func postForm(t *testing.T, rawURL string, values url.Values) (int, string) {
	t.Helper()
	resp, err := http.PostForm(rawURL, values)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func classicValues() url.Values {
	return url.Values{
		"textInput":     {"Bob"},
		"emailInput":    {"bob@example.com"},
		"passwordInput": {"abc123!"},
		"textareaInput": {`Tom & Jerry's "show" 1<2`},
		"selectInput":   {"option1"},
		"genderInput":   {"Female"},
		"humanInput":    {"on"},
	}
}

func TestSubmit_ClassicFallback(t *testing.T) {
	_, ts := newTestServer(t, form.Options{})

	t.Run("valid", func(t *testing.T) {
		status, body := postForm(t, ts.URL+"/forms/classic", classicValues())
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, form.ConfirmationTitle)
		assert.Contains(t, body, "<td>Tom &amp; Jerry&#39;s &#34;show&#34; 1&lt;2</td>", "value should be escaped once")
		assert.Contains(t, body, "<td>true</td>")
		assert.Contains(t, body, "<td>false</td>")
	})

	t.Run("unfilled", func(t *testing.T) {
		values := classicValues()
		values.Del("genderInput")
		status, body := postForm(t, ts.URL+"/forms/classic", values)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Contains(t, body, form.AlertUnfilled)
		assert.NotContains(t, body, "<td>Bob</td>")
	})

	t.Run("field errors do not block", func(t *testing.T) {
		values := classicValues()
		values.Set("textInput", "Bob!")
		status, body := postForm(t, ts.URL+"/forms/classic", values)
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, form.ConfirmationTitle)
		assert.Contains(t, body, "<td>Bob!</td>")
		assert.Contains(t, body, validation.MsgSpecialChars)
	})

	t.Run("undeclared option", func(t *testing.T) {
		values := classicValues()
		values.Set("selectInput", "option9")
		status, _ := postForm(t, ts.URL+"/forms/classic", values)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestSubmit_AsyncFallback(t *testing.T) {
	tests := []struct {
		name string
		draw float64
		want string
	}{
		{"success", 0.1, form.ConfirmationTitle},
		{"failure", 0.9, form.FailureMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ts := newTestServer(t, form.Options{Submission: submission.Options{
				Delay: time.Millisecond, SuccessRate: 0.8, Rand: fixedRand(tt.draw),
			}})
			status, body := postForm(t, ts.URL+"/forms/async", url.Values{
				"textInput":  {"Bob"},
				"emailInput": {"bob@example.com"},
			})
			assert.Equal(t, http.StatusOK, status)
			assert.Contains(t, body, tt.want)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t, form.Options{})

	values := classicValues()
	values.Set("emailInput", "nope")
	values.Set("textareaInput", "<b>hi</b>")
	postForm(t, ts.URL+"/forms/classic", values)
	values.Del("genderInput")
	postForm(t, ts.URL+"/forms/classic", values)

	status, body := get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `contactform_submissions_total{outcome="succeeded",profile="classic"} 1`)
	assert.Contains(t, body, `contactform_submissions_total{outcome="unfilled",profile="classic"} 1`)
	assert.Contains(t, body, `contactform_markup_values_total{field="textareaInput",profile="classic"} 1`)
	assert.Contains(t, body, `contactform_validation_failures_total{field="emailInput",profile="classic"}`)
	assert.Contains(t, body, "contactform_sessions_active")
}

func TestMarkupFields(t *testing.T) {
	snap := form.Snapshot{Rows: []form.Row{
		{Name: "plain", Value: `Tom & Jerry's "show" 1<2`},
		{Name: "tag", Value: "<script>alert(1)</script>hi"},
		{Name: "empty", Value: ""},
		{Name: "styled", Value: "<i>hi</i>"},
	}}
	assert.Equal(t, []string{"tag", "styled"}, markupFields(snap))
	assert.Equal(t, "<script>alert(1)</script>hi", snap.Rows[1].Value)
}
