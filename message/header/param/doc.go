// Package param provides a tool for dealing with parameterized headers. These
// headers include the Content-Type and Content-Disposition header. In addition,
// it provides some helper methods for breaking down the MIME types that get
// set in the Content-Type header and for quoting parameter values.
package param
