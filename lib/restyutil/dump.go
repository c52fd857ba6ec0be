package restyutil

import (
	"strconv"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// DumpTraffic writes every response the client receives to `output`, ids are
// sequential per client starting at 1.
func DumpTraffic(client *resty.Client, output Output) {
	if output == nil {
		return
	}
	var idcounter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := atomic.AddUint64(&idcounter, 1)
		output.Write(strconv.FormatUint(id, 10), FormatHttpMessage(res))
		return nil
	})
}
