package rates

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const keyRateXML = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope">
  <soap:Body>
    <KeyRateResponse xmlns="http://web.cbr.ru/">
      <KeyRateResult>
        <diffgram>
          <KeyRate>
            <KR><DT>2024-06-01T00:00:00+03:00</DT><Rate>16.00</Rate></KR>
            <KR><DT>2024-05-01T00:00:00+03:00</DT><Rate>15.00</Rate></KR>
          </KeyRate>
        </diffgram>
      </KeyRateResult>
    </KeyRateResponse>
  </soap:Body>
</soap:Envelope>`

func TestGetKeyRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "soap+xml")
		w.Write([]byte(keyRateXML))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5.0)
	rate, err := c.GetKeyRate()
	require.NoError(t, err)
	// Latest published rate plus the configured margin.
	assert.Equal(t, 21.0, rate)
}

func TestGetKeyRate_BadResponses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "upstream error", status: http.StatusInternalServerError, body: ""},
		{name: "malformed xml", status: http.StatusOK, body: "<not-xml"},
		{name: "empty diffgram", status: http.StatusOK, body: `<?xml version="1.0"?><Envelope><diffgram><KeyRate/></diffgram></Envelope>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, 5.0)
			_, err := c.GetKeyRate()
			assert.Error(t, err)
		})
	}
}
