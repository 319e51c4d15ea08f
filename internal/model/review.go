package model

import (
	"time"
)

// Review 评论（每个作者对每部作品最多一条）
type Review struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	AuthorID uint      `json:"-" gorm:"not null;uniqueIndex:idx_review_author_title"`
	Author   User      `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	TitleID  uint      `json:"-" gorm:"not null;uniqueIndex:idx_review_author_title;index"`
	Title    Title     `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Score    int       `json:"score" gorm:"not null;check:score >= 1 AND score <= 10"`
	PubDate  time.Time `json:"pub_date" gorm:"not null;index"`
}

// Comment 评论下的回复
type Comment struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	AuthorID uint      `json:"-" gorm:"not null;index"`
	Author   User      `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ReviewID uint      `json:"-" gorm:"not null;index"`
	Review   Review    `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	PubDate  time.Time `json:"pub_date" gorm:"not null;index"`
}
