package fieldmeta

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// defaultTitles maps well-known field names to display labels. The console UI
// is Chinese-first, matching the backend entities it manages.
var defaultTitles = map[string]string{
	"id":  "ID",
	"_id": "ID",

	"name":        "名称",
	"title":       "标题",
	"code":        "编码",
	"type":        "类型",
	"status":      "状态",
	"description": "描述",
	"remark":      "备注",

	"createTime": "创建时间",
	"updateTime": "更新时间",
	"birthDate":  "出生日期",

	"openid":      "OpenID",
	"unionid":     "UnionID",
	"username":    "用户名",
	"nickname":    "昵称",
	"password":    "密码",
	"realName":    "真实姓名",
	"phone":       "手机号",
	"phoneNumber": "手机号",
	"email":       "邮箱",
	"avatar":      "头像",
	"gender":      "性别",

	"province":      "省份",
	"city":          "城市",
	"district":      "区县",
	"detailAddress": "详细地址",

	"communityId":   "社区ID",
	"communityName": "社区名称",
	"community":     "社区",

	"role":        "角色",
	"roles":       "角色",
	"permission":  "权限",
	"permissions": "权限",
	"enabled":     "启用状态",
	"deleted":     "删除状态",

	"sort":             "排序",
	"order":            "排序",
	"serialVersionUID": "序列号",
}

// Title resolves a field name to a display label using the built-in
// dictionary, falling back to the raw name.
func Title(name string) string {
	if t, ok := defaultTitles[name]; ok {
		return t
	}
	return name
}

// Humanize turns a camelCase field name into a spaced, capitalized label.
// Used by installations without a label dictionary entry when the title store
// has humanization enabled.
func Humanize(name string) string {
	s := strcase.ToDelimited(name, ' ')
	if s == "" {
		return name
	}
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
