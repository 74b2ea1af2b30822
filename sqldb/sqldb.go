package sqldb

import (
	"database/sql"
	"errors"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

type DBer interface {
	CreateTable(t TableData) error
	Insert(t TableData) error
}

type Sqldb struct {
	options
	db *sql.DB
}

type Field struct {
	Title string
	Type  string
}

type TableData struct {
	TableName   string
	ColumnNames []Field       // 标题字段
	Args        []interface{} // 数据
	DataCount   int           // 插入数据的数量
	AutoKey     bool
}

func New(opts ...Option) (*Sqldb, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	d := &Sqldb{}
	d.options = options

	if err := d.OpenDB(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Sqldb) OpenDB() error {
	db, err := sql.Open("mysql", d.sqlURL)
	if err != nil {
		return err
	}

	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(4)

	if err = db.Ping(); err != nil {
		db.Close()
		return err
	}

	d.db = db

	return nil
}

func (d *Sqldb) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

func CreateTableSQL(t TableData) (string, error) {
	if len(t.ColumnNames) == 0 {
		return "", errors.New("column can not be empty")
	}

	sql := "CREATE TABLE IF NOT EXISTS `" + t.TableName + "` ("

	if t.AutoKey {
		sql += `id INT(12) NOT NULL PRIMARY KEY AUTO_INCREMENT,`
	}

	for _, t := range t.ColumnNames {
		sql += "`" + t.Title + "` " + t.Type + `,`
	}

	sql = sql[:len(sql)-1] + `) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

	return sql, nil
}

func InsertSQL(t TableData) (string, error) {
	if len(t.ColumnNames) == 0 {
		return "", errors.New("empty column")
	}
	if t.DataCount <= 0 {
		return "", errors.New("empty data")
	}
	if len(t.Args) != t.DataCount*len(t.ColumnNames) {
		return "", errors.New("args count mismatch")
	}

	sql := "INSERT INTO `" + t.TableName + "`("

	for _, v := range t.ColumnNames {
		sql += "`" + v.Title + "`,"
	}

	sql = sql[:len(sql)-1] + `) VALUES `

	blank := ",(" + strings.Repeat(",?", len(t.ColumnNames))[1:] + ")"
	sql += strings.Repeat(blank, t.DataCount)[1:] + `;`

	return sql, nil
}

func (d *Sqldb) CreateTable(t TableData) error {
	sql, err := CreateTableSQL(t)
	if err != nil {
		return err
	}

	d.logger.Debug("create table", zap.String("sql", sql))

	_, err = d.db.Exec(sql)

	return err
}

func (d *Sqldb) DropTable(t TableData) error {
	sql := "DROP TABLE IF EXISTS `" + t.TableName + "`"

	d.logger.Debug("drop table", zap.String("sql", sql))

	_, err := d.db.Exec(sql)

	return err
}

func (d *Sqldb) Insert(t TableData) error {
	sql, err := InsertSQL(t)
	if err != nil {
		return err
	}

	d.logger.Debug("insert table", zap.String("sql", sql))
	_, err = d.db.Exec(sql, t.Args...)

	return err
}
