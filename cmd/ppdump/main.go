// Command ppdump decodes a PROXY protocol header from a hex-encoded
// buffer and logs the result. It never opens a socket: the input is a
// literal buffer, either passed with -hex or read from stdin.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/haprx/proxyproto"
)

func main() {
	hexFlag := flag.String("hex", "", "hex-encoded PROXY protocol header; reads stdin if omitted")
	flag.Parse()

	raw, err := readInput(*hexFlag)
	if err != nil {
		logrus.WithError(err).Fatal("ppdump: failed to read input")
	}

	buf, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		logrus.WithError(err).Fatal("ppdump: input is not valid hex")
	}

	n, info, err := proxyproto.ParseHeader(buf)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"code": proxyproto.Strerror(err),
		}).Fatal("ppdump: parse failed")
	}
	if n == 0 {
		fmt.Println("no PROXY protocol header present")
		return
	}

	logrus.WithFields(info.LogrusFields()).WithField("bytes_consumed", n).Info("ppdump: decoded header")
}

func readInput(hexArg string) ([]byte, error) {
	if hexArg != "" {
		return []byte(hexArg), nil
	}
	return io.ReadAll(os.Stdin)
}
