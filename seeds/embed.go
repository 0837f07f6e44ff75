// Package seeds holds the default chart of accounts loaded by the chart seeder.
package seeds

import _ "embed"

//go:embed chart_of_accounts.yaml
var ChartOfAccounts []byte
