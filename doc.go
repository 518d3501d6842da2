// Package leadform 是落地页留资表单的服务端：租户在门户中编辑表单字段，
// 公开的落地页按这些字段渲染、校验并提交留资。
//
// 字段的规则在 formfield 包中，本包负责按配置组装存储、留资转发和认证。
//
// 配置项（leadform.properties）:
//
//	http.listen          监听的地址，默认 :8080
//	http.prefix          接口的路径前缀，默认 /leadform/api/v1
//	forms.store          airtable, sqlite 或 inmem，默认 inmem
//	forms.presets        可选预置字段的覆盖配置（hjson）
//	sqlite.dsn           sqlite 的连接串，默认为数据目录下的 leadform.db
//	sqlite.reset         启动时是否重建表
//	leads.intake_url     留资转发的地址，为空时只记录日志
//	auth.jwt.secret      门户 token 的密钥
package leadform
