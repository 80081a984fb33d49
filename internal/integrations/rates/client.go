// Package rates integrates with the central bank's key-rate SOAP
// endpoint. The rate it returns seeds the annual rate recorded on new
// loans.
package rates

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/beevik/etree"
)

// Client fetches the key rate over SOAP/XML.
type Client struct {
	url    string
	margin float64
	client *http.Client
}

// NewClient creates a rates client. margin is the bank margin added on
// top of the published key rate, in percentage points.
func NewClient(url string, margin float64) *Client {
	return &Client{
		url:    url,
		margin: margin,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) buildSOAPRequest() string {
	fromDate := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	toDate := time.Now().Format("2006-01-02")
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
		<soap12:Envelope xmlns:soap12="http://www.w3.org/2003/05/soap-envelope">
			<soap12:Body>
				<KeyRate xmlns="http://web.cbr.ru/">
					<fromDate>%s</fromDate>
					<ToDate>%s</ToDate>
				</KeyRate>
			</soap12:Body>
		</soap12:Envelope>`, fromDate, toDate)
}

func (c *Client) sendRequest(soapRequest string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodPost, c.url, bytes.NewBufferString(soapRequest))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/soap+xml; charset=utf-8")
	req.Header.Set("SOAPAction", "http://web.cbr.ru/KeyRate")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (c *Client) parseXMLResponse(rawBody []byte) (float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return 0, fmt.Errorf("failed to parse XML: %w", err)
	}

	krElements := doc.FindElements("//diffgram/KeyRate/KR")
	if len(krElements) == 0 {
		return 0, fmt.Errorf("no key rate data found in XML")
	}

	// The first element carries the latest rate.
	rateElement := krElements[0].FindElement("./Rate")
	if rateElement == nil {
		return 0, fmt.Errorf("rate element not found in XML")
	}

	var rate float64
	if _, err := fmt.Sscanf(rateElement.Text(), "%f", &rate); err != nil {
		return 0, fmt.Errorf("failed to parse rate: %w", err)
	}

	return rate, nil
}

// GetKeyRate retrieves the current key rate and adds the bank margin.
func (c *Client) GetKeyRate() (float64, error) {
	body, err := c.sendRequest(c.buildSOAPRequest())
	if err != nil {
		return 0, err
	}

	rate, err := c.parseXMLResponse(body)
	if err != nil {
		return 0, err
	}

	return rate + c.margin, nil
}
