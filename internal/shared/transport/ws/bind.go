package ws

import (
	"errors"

	"github.com/go-viper/mapstructure/v2"
)

// BindMsg 把 WsMsgReq.Body.Msg（json 解出来的 map）解码到目标结构体，按 mapstructure 标签匹配。
func BindMsg(req *WsMsgReq, dst any) error {
	if req == nil || req.Body == nil {
		return errors.New("ws request body is nil")
	}
	if req.Body.Msg == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(req.Body.Msg)
}
