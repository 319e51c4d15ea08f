package model

// Genre 类型
type Genre struct {
	ID   uint   `json:"-" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:256;not null"`
	Slug string `json:"slug" gorm:"size:50;uniqueIndex;not null"`
}

// Category 分类
type Category struct {
	ID   uint   `json:"-" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:256;not null"`
	Slug string `json:"slug" gorm:"size:50;uniqueIndex;not null"`
}

// Title 作品
type Title struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:256;not null;index"`
	Year        int       `json:"year" gorm:"not null;index"`
	Description string    `json:"description" gorm:"type:text"`
	CategoryID  *uint     `json:"-" gorm:"index"`
	Category    *Category `json:"category" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Genres      []Genre   `json:"genre" gorm:"many2many:genre_titles;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Rating      *float64  `json:"-" gorm:"->;-:migration"` // 查询时由 AVG(reviews.score) 填充
}

// RatingValue 评分取平均值的整数部分，无评论时为 nil
func (t *Title) RatingValue() *int {
	if t.Rating == nil {
		return nil
	}
	v := int(*t.Rating)
	return &v
}
