package cmd

import "time"

const (
	// DEF_RPC_TIMEOUT bounds a single remote call.
	DEF_RPC_TIMEOUT = time.Second * 30
	// DEF_JAR is the daemon jar used when --jar is not given.
	DEF_JAR = "default"
)

const DESCRIPTION = `
WarpJar is an RFC 6265 cookie jar. It decides which cookies
a server may set, which cookies go back on a request and in
what order, either for a single command or as a long running
daemon shared by many clients.
`

const (
	HeaderDescription = `The header command evaluates a set of Set-Cookie values
against a url and prints the resulting Cookie header.
The jar can be seeded from browser cookie stores or a
Netscape cookies.txt file first.

Example:
        warpjar header -s "sid=1; Path=/" https://domain.com/app
        warpjar header --cookies-from auto https://domain.com/

`
	ListDescription = `The list command displays every live cookie of a jar
seeded from browser cookie stores or a Netscape file,
without their values.

Example:
        warpjar list --cookies-from ~/cookies.txt

`
	DaemonDescription = `The daemon command serves named cookie jars over
JSON-RPC 2.0 on HTTP and WebSocket. Every request must
carry the secret as a bearer token.

Example:
        warpjar daemon --secret s3cret --port 3849

`
	RemoteDescription = `The remote command talks to a running daemon.

Example:
        warpjar remote --jar web set https://domain.com/ "sid=1"
        warpjar remote --jar web header https://domain.com/

`
)
