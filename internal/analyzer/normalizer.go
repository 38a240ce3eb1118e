package analyzer

import (
	"regexp"
	"strings"
)

// HTML 清洗用的正则，启动时编译一次。
var (
	reComment   = regexp.MustCompile(`<!--[\s\S]*?-->`)
	reLineBreak = regexp.MustCompile(`(?i)<\s*br\s*/?>`)
	reParagraph = regexp.MustCompile(`(?i)<\s*/?p\s*>`)
	reTag       = regexp.MustCompile(`<.*?>`)
	reNewlines  = regexp.MustCompile(`\n+`)
	reSpaces    = regexp.MustCompile(`[ \t]+`)
)

// Normalize 将原始正文（可能为 HTML）清洗为纯文本。
// 对畸形标记尽力输出，不报错；同一输入始终得到同一输出。
//
// 处理顺序与语义：
//  1. 解码四个常见转义实体（&nbsp; &lt; &gt; &amp;）
//  2. 删除注释块
//  3. 将 <br> 与 <p> 转为换行，再剥除其余全部标签
//  4. 统一行尾，合并连续空行，压缩水平空白，去除首尾空白
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := strings.ReplaceAll(raw, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&amp;", "&")

	text = reComment.ReplaceAllString(text, "")

	// 换行语义的标签先转成换行，否则剥除标签时会丢失段落边界
	text = reLineBreak.ReplaceAllString(text, "\n")
	text = reParagraph.ReplaceAllString(text, "\n")

	text = reTag.ReplaceAllString(text, "")

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = reNewlines.ReplaceAllString(text, "\n")
	text = reSpaces.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
