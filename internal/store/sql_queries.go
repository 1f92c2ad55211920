package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/acidburn0zzz/treesync/models"
)

// nodeColumns is the canonical select list for the nodes table; scanNodeRow
// must stay in sync with it.
var nodeColumns = []string{
	"id", "model_type", "client_tag", "root_tag",
	"parent_id", "position", "title", "specifics", "is_del",
}

// nodeRow is the raw persisted shape of a tree-store entry.
type nodeRow struct {
	id        int64
	modelType models.ModelType
	clientTag sql.NullString
	rootTag   sql.NullString
	parentID  sql.NullInt64
	position  int64
	title     string
	specifics models.EntitySpecifics
	isDel     bool
}

func scanNodeRow(row *sql.Row) (nodeRow, error) {
	var r nodeRow
	var rawType int
	var rawSpecifics string
	var rawIsDel int

	err := row.Scan(
		&r.id, &rawType, &r.clientTag, &r.rootTag,
		&r.parentID, &r.position, &r.title, &rawSpecifics, &rawIsDel,
	)
	if err != nil {
		return nodeRow{}, err
	}

	r.modelType = models.ModelType(rawType)
	r.isDel = rawIsDel != 0
	if err := json.Unmarshal([]byte(rawSpecifics), &r.specifics); err != nil {
		return nodeRow{}, fmt.Errorf("decode node specifics: %w", err)
	}
	return r, nil
}

// selectNode builds the single-row node query for the given predicate. Live
// rows win over tombstones when both match, e.g. a tag recreated after a
// delete.
func (t *sqlTransaction) selectNode(pred sq.Sqlizer) (nodeRow, error) {
	query := t.share.sb.Select(nodeColumns...).From("nodes").Where(pred).
		OrderBy("is_del ASC", "id DESC").
		Limit(1)
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nodeRow{}, fmt.Errorf("build node query: %w", err)
	}
	return scanNodeRow(t.tx.QueryRow(sqlStr, args...))
}

// selectChildID returns the id of the first live child of parentID ordered
// by position, optionally after a given position. KInvalidID when none.
func (t *sqlTransaction) selectChildID(parentID any, afterPosition *int64) (int64, error) {
	query := t.share.sb.Select("id").From("nodes").
		Where(sq.Eq{"parent_id": parentID}).
		Where(sq.Eq{"is_del": 0}).
		OrderBy("position ASC").
		Limit(1)
	if afterPosition != nil {
		query = query.Where(sq.Gt{"position": *afterPosition})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return KInvalidID, fmt.Errorf("build child query: %w", err)
	}

	var id int64
	err = t.tx.QueryRow(sqlStr, args...).Scan(&id)
	if isNoRows(err) {
		return KInvalidID, nil
	}
	if err != nil {
		return KInvalidID, fmt.Errorf("query child id: %w", err)
	}
	return id, nil
}

// encodeSpecifics serializes specifics for storage.
func encodeSpecifics(specifics models.EntitySpecifics) (string, error) {
	raw, err := json.Marshal(specifics)
	if err != nil {
		return "", fmt.Errorf("encode node specifics: %w", err)
	}
	return string(raw), nil
}
