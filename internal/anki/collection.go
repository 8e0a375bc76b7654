package anki

import (
	"crypto/sha1"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var collectionSchema string

// schemaVersion is the col.ver understood by current Anki importers
const schemaVersion = 11

// defaultConfID is the id of the single deck options group
const defaultConfID = 1

// guidNamespace scopes note guids so reimporting a word updates the
// existing note instead of duplicating it
var guidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://codeberg.org/snonux/kotoba"))

// deck is one entry of col.decks
type deck struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Mod              int64  `json:"mod"`
	Desc             string `json:"desc"`
	Collapsed        bool   `json:"collapsed"`
	BrowserCollapsed bool   `json:"browserCollapsed"`
	Dyn              int    `json:"dyn"`
	Conf             int64  `json:"conf"`
	USN              int    `json:"usn"`
	NewToday         [2]int `json:"newToday"` // [day, count]
	RevToday         [2]int `json:"revToday"`
	LrnToday         [2]int `json:"lrnToday"`
	TimeToday        [2]int `json:"timeToday"`
	ExtendNew        int    `json:"extendNew"`
	ExtendRev        int    `json:"extendRev"`
}

func newDeck(id int64, name, desc string, mod int64) deck {
	return deck{ID: id, Name: name, Desc: desc, Mod: mod, Conf: defaultConfID, ExtendNew: 10, ExtendRev: 50}
}

// collectionConf is col.conf
type collectionConf struct {
	NextPos       int     `json:"nextPos"`
	EstTimes      bool    `json:"estTimes"`
	ActiveDecks   []int64 `json:"activeDecks"`
	SortType      string  `json:"sortType"`
	SortBackwards bool    `json:"sortBackwards"`
	AddToCur      bool    `json:"addToCur"`
	CurDeck       int64   `json:"curDeck"`
	NewSpread     int     `json:"newSpread"`
	DueCounts     bool    `json:"dueCounts"`
	CollapseTime  int     `json:"collapseTime"`
	TimeLim       int     `json:"timeLim"`
	SchedVer      int     `json:"schedVer"`
	CurModel      string  `json:"curModel"`
	DayLearnFirst bool    `json:"dayLearnFirst"`
}

// deckOptions is one entry of col.dconf
type deckOptions struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Dyn      int    `json:"dyn"`
	New      struct {
		Delays        []int `json:"delays"`
		Ints          []int `json:"ints"`
		InitialFactor int   `json:"initialFactor"`
		PerDay        int   `json:"perDay"`
		Order         int   `json:"order"`
		Bury          bool  `json:"bury"`
		Separate      bool  `json:"separate"`
	} `json:"new"`
	Lapse struct {
		Delays      []int   `json:"delays"`
		Mult        float64 `json:"mult"`
		MinInt      int     `json:"minInt"`
		LeechFails  int     `json:"leechFails"`
		LeechAction int     `json:"leechAction"`
	} `json:"lapse"`
	Rev struct {
		PerDay   int     `json:"perDay"`
		Ease4    float64 `json:"ease4"`
		Fuzz     float64 `json:"fuzz"`
		MaxIvl   int     `json:"maxIvl"`
		IvlFct   float64 `json:"ivlFct"`
		Bury     bool    `json:"bury"`
		MinSpace int     `json:"minSpace"`
	} `json:"rev"`
	Timer    int   `json:"timer"`
	MaxTaken int   `json:"maxTaken"`
	USN      int   `json:"usn"`
	Mod      int64 `json:"mod"`
	Autoplay bool  `json:"autoplay"`
	Replayq  bool  `json:"replayq"`
}

func defaultDeckOptions(mod int64) deckOptions {
	o := deckOptions{ID: defaultConfID, Name: "Default", MaxTaken: 60, Mod: mod, Autoplay: true, Replayq: true}
	o.New.Delays = []int{1, 10}
	o.New.Ints = []int{1, 4, 7}
	o.New.InitialFactor = 2500
	o.New.PerDay = 20
	o.New.Order = 1
	o.New.Bury = true
	o.New.Separate = true
	o.Lapse.Delays = []int{10}
	o.Lapse.MinInt = 1
	o.Lapse.LeechFails = 8
	o.Rev.PerDay = 100
	o.Rev.Ease4 = 1.3
	o.Rev.Fuzz = 0.05
	o.Rev.MaxIvl = 36500
	o.Rev.IvlFct = 1
	o.Rev.Bury = true
	o.Rev.MinSpace = 1
	return o
}

// writeCollection creates the collection.anki2 database at path
func (g *APKGGenerator) writeCollection(path string) (err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(collectionSchema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	now := time.Now()
	if err = g.insertCollection(tx, now.Unix()); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}
	if err = g.insertNotes(tx, now); err != nil {
		return fmt.Errorf("failed to insert notes and cards: %w", err)
	}
	return tx.Commit()
}

func (g *APKGGenerator) insertCollection(tx *sql.Tx, now int64) error {
	decks := map[string]deck{
		"1": newDeck(1, "Default", "", now),
		strconv.FormatInt(g.deckID, 10): newDeck(g.deckID, g.deckName, "Japanese vocabulary cards created by kotoba", now),
	}
	conf := collectionConf{
		NextPos:      1,
		EstTimes:     true,
		ActiveDecks:  []int64{1},
		SortType:     "noteFld",
		AddToCur:     true,
		CurDeck:      1,
		DueCounts:    true,
		CollapseTime: 1200,
		SchedVer:     1,
		CurModel:     strconv.FormatInt(g.noteTypeID, 10),
	}
	dconf := map[string]deckOptions{"1": defaultDeckOptions(now)}

	blobs := make([]string, 0, 4)
	for _, v := range []any{conf, g.models(now), decks, dconf} {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		blobs = append(blobs, string(data))
	}

	_, err := tx.Exec(`INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		VALUES (1, ?, ?, ?, ?, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		now, now*1000, now*1000, schemaVersion, blobs[0], blobs[1], blobs[2], blobs[3])
	return err
}

// insertNotes writes every note with its single card. New cards are due
// in insertion order.
func (g *APKGGenerator) insertNotes(tx *sql.Tx, now time.Time) error {
	noteStmt, err := tx.Prepare(`INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
		VALUES (?, ?, ?, ?, -1, '', ?, ?, ?, 0, '')`)
	if err != nil {
		return err
	}
	defer noteStmt.Close()

	cardStmt, err := tx.Prepare(`INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl, factor, reps, lapses, left, odue, odid, flags, data)
		VALUES (?, ?, ?, 0, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`)
	if err != nil {
		return err
	}
	defer cardStmt.Close()

	base := now.UnixMilli()
	for i, note := range g.notes {
		noteID := base + int64(i*2)
		sortField := note.fields[FieldVocabularyKanji]

		if _, err := noteStmt.Exec(noteID, g.noteGUID(note), g.modelID(note.dir), now.Unix(),
			strings.Join(note.fields[:], "\x1f"), sortField, checksum(sortField)); err != nil {
			return fmt.Errorf("failed to insert note %d: %w", i+1, err)
		}
		if _, err := cardStmt.Exec(noteID+1, noteID, g.deckID, now.Unix(), i+1); err != nil {
			return fmt.Errorf("failed to insert card %d: %w", i+1, err)
		}
	}
	return nil
}

// noteGUID derives a stable guid from the deck, the model and the
// identifying fields of a note
func (g *APKGGenerator) noteGUID(n directedNote) string {
	key := strings.Join([]string{
		g.deckName,
		strconv.FormatInt(g.modelID(n.dir), 10),
		n.fields[FieldVocabularyKanji],
		n.fields[FieldVocabularyKana],
		n.fields[FieldVocabularyFurigana],
	}, "\x1f")
	return uuid.NewSHA1(guidNamespace, []byte(key)).String()
}

// checksum is Anki's duplicate-detection csum: the first 32 bits of the
// SHA-1 of the sort field
func checksum(field string) int64 {
	sum := sha1.Sum([]byte(field))
	v, _ := strconv.ParseUint(hex.EncodeToString(sum[:4]), 16, 32)
	return int64(v)
}
