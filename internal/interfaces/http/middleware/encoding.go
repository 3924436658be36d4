// Package middleware gin 中间件
package middleware

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"
)

// legacyEncodings 依次尝试的非 UTF-8 编码
// GB18030 兼容 GBK，放在 Big5 之前
var legacyEncodings = []encoding.Encoding{
	simplifiedchinese.GB18030,
	traditionalchinese.Big5,
}

// EnsureUTF8Body 把非 UTF-8 请求体转码为 UTF-8
// Windows 终端发出的请求常是 GBK 编码；无法识别时原样放行
func EnsureUTF8Body() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.ContentLength == 0 || isMultipart(c) {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		c.Request.Body.Close()
		if err != nil {
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
			c.Next()
			return
		}

		if !utf8.Valid(body) {
			if converted, ok := ToUTF8(body); ok {
				body = converted
				c.Request.ContentLength = int64(len(body))
			}
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Next()
	}
}

// ToUTF8 尝试用已知编码解码，结果必须是合法 UTF-8
func ToUTF8(data []byte) ([]byte, bool) {
	for _, enc := range legacyEncodings {
		out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
		if err == nil && utf8.Valid(out) && !bytes.ContainsRune(out, utf8.RuneError) {
			return out, true
		}
	}
	return nil, false
}

func isMultipart(c *gin.Context) bool {
	return c.ContentType() == "multipart/form-data"
}
