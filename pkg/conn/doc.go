// Package conn holds the remote-connection collaborators the download
// stages consume: SSH and FTP connections with a narrow Download/Contents
// surface, and a blocking HTTP fetch.
//
// Connections are lazy: constructing one performs no I/O, the first call
// dials and the connection is reused afterwards. Connection setup failures
// are explicit errors; the sole automatic retry is an FTP reconnect on a
// transient or EOF fault during download.
package conn
