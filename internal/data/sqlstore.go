package data

import (
	"time"

	"auction-pricer/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SQLStore reads historical auctions from a MySQL auction_records table.
// Selected when db_url is configured; the range filter runs in the query.
type SQLStore struct {
	db            *gorm.DB
	LookbackYears int
}

// NewSQLStore connects to MySQL with conservative pool settings.
func NewSQLStore(dsn string, lookbackYears int) (*SQLStore, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, &DataUnavailableError{Source: "mysql", Reason: "cannot connect", Err: err}
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, &DataUnavailableError{Source: "mysql", Reason: "cannot access connection pool", Err: err}
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &SQLStore{db: db, LookbackYears: lookbackYears}, nil
}

func (s *SQLStore) Load(asOf time.Time) ([]model.AuctionRecord, error) {
	cutoff := lookbackCutoff(asOf, s.LookbackYears)
	var records []model.AuctionRecord
	err := s.db.
		Where("auction_date BETWEEN ? AND ?", cutoff, asOf).
		Order("auction_date").
		Find(&records).Error
	if err != nil {
		return nil, &DataUnavailableError{Source: "mysql", Reason: "query failed", Err: err}
	}
	return records, nil
}
