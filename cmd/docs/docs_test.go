package docs_test

import (
	"encoding/json"
	"testing"

	"github.com/SscSPs/clinic_billing/cmd/docs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerDocDescribesRoutes(t *testing.T) {
	var doc struct {
		Paths       map[string]map[string]json.RawMessage `json:"paths"`
		Definitions map[string]json.RawMessage            `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc))

	for path, method := range map[string]string{
		"/payments":                                 "post",
		"/payments/{paymentID}/refunds":             "post",
		"/installments/{installmentID}/payments":    "post",
		"/invoices/{invoiceID}/partial-payments":    "post",
		"/invoices/{invoiceID}/installments":        "post",
		"/ledgers/{domain}/fund-movements":          "post",
		"/ledgers/{domain}/balance":                 "get",
		"/ledgers/{domain}/reports/daily-statement": "get",
		"/categories/{categoryID}":                  "patch",
	} {
		assert.Contains(t, doc.Paths[path], method, "%s %s", method, path)
	}
	assert.Contains(t, doc.Definitions, "dto.ProcessPaymentRequest")
	assert.Contains(t, doc.Definitions, "domain.DailyStatement")
}
