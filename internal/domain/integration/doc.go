// Package integration contains the domain model of the Zoho Books connector:
// the OAuth credential record, the accounting platform port with its remote
// value objects, the error taxonomy shared by every layer of the connector,
// and the result types returned by sync and push operations.
package integration
