// internal/service/courier/sign.go
package courier

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/base64"
)

// Digest 按承运商协议计算签名：base64(md5(msgData + timestamp + checkword))。
// 这是对外协议约定，算法不可协商；保持独立纯函数并用已知向量锁定。
func Digest(msgData, timestamp, checkword string) string {
	sum := md5.Sum([]byte(msgData + timestamp + checkword))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// VerifyDigest 校验入站推送的签名，使用恒定时间比较
func VerifyDigest(msgData, timestamp, checkword, digest string) bool {
	expected := Digest(msgData, timestamp, checkword)
	return hmac.Equal([]byte(expected), []byte(digest))
}
