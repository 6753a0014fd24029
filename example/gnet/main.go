// Demonstrates routing gnet's internal logging through the process-wide
// logger installed by this package.
package main

import (
	"github.com/panjf2000/gnet/v2"

	fillogger "github.com/filecoin-project/go-fil-logger"
	"github.com/filecoin-project/go-fil-logger/compat"
)

type echoServer struct {
	gnet.BuiltinEventEngine
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	c.Write(buf)
	return gnet.None
}

func main() {
	fillogger.Init()

	gnetLogger := compat.NewGnetAdapter(nil)

	err := gnet.Run(
		&echoServer{},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetLogger),
	)
	if err != nil {
		panic(err)
	}
}
