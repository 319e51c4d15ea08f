package model

// All 需要自动迁移的模型，顺序保证外键依赖先建表
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Genre{},
		&Title{},
		&Review{},
		&Comment{},
	}
}
