package scheduler

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/yleoer/lrc/pkg/database"
	"github.com/yleoer/lrc/pkg/lrc"
	"github.com/yleoer/lrc/pkg/scanner"
	"github.com/yleoer/lrc/pkg/util"
)

// TaskScheduler 负责调度歌词文件的解析和索引任务
type TaskScheduler struct {
	delay             time.Duration
	store             database.LyricStore
	lyricScanner      *scanner.LyricScanner
	logger            *log.Logger
	pendingScans      map[string]*time.Timer
	pendingScansMutex sync.Mutex // 保护 pendingScans map
	files             map[string]*lrc.File
	filesMutex        sync.RWMutex // 保护 files map
}

// NewTaskScheduler 创建一个新的 TaskScheduler 实例
func NewTaskScheduler(
	delay time.Duration,
	store database.LyricStore,
	lyricScanner *scanner.LyricScanner,
	logger *log.Logger,
) *TaskScheduler {
	return &TaskScheduler{
		delay:        delay,
		store:        store,
		lyricScanner: lyricScanner,
		logger:       logger,
		pendingScans: make(map[string]*time.Timer),
		files:        make(map[string]*lrc.File),
	}
}

// InitialScan 递归扫描歌词目录，解析所有 LRC 文件
func (ts *TaskScheduler) InitialScan(root string) {
	ts.logger.Printf("Performing initial scan for lyrics in %s...", root)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			ts.logger.Printf("ERROR: Error walking %s: %v", path, err)
			return nil
		}
		if !d.IsDir() && util.IsLyricFile(path) {
			ts.performScan(path)
		}
		return nil
	})
	if err != nil {
		ts.logger.Printf("ERROR: Initial scan of %s failed: %v", root, err)
		return
	}
	ts.logger.Println("Initial scan completed.")
}

// TriggerScan 将一个歌词文件加入延迟解析队列，短时间内的重复触发会合并
func (ts *TaskScheduler) TriggerScan(path string) {
	ts.pendingScansMutex.Lock()
	defer ts.pendingScansMutex.Unlock()
	// 已有待定任务则重置计时器
	if timer, ok := ts.pendingScans[path]; ok {
		timer.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(ts.delay, func() {
		ts.performScan(path)
		ts.finishScan(path, timer)
	})
	ts.pendingScans[path] = timer
	ts.logger.Printf("Scheduled scan for %s in %v", path, ts.delay)
}

// finishScan 仅当队列中仍是同一个计时器时才移除，扫描期间新触发的任务保留在队列中
func (ts *TaskScheduler) finishScan(path string, timer *time.Timer) {
	ts.pendingScansMutex.Lock()
	defer ts.pendingScansMutex.Unlock()
	if ts.pendingScans[path] == timer {
		delete(ts.pendingScans, path)
	}
}

// cancelScan 取消尚未执行的扫描任务
func (ts *TaskScheduler) cancelScan(path string) {
	ts.pendingScansMutex.Lock()
	defer ts.pendingScansMutex.Unlock()
	if timer, ok := ts.pendingScans[path]; ok {
		timer.Stop()
		delete(ts.pendingScans, path)
	}
}

// Pending 返回尚未执行的扫描任务数量
func (ts *TaskScheduler) Pending() int {
	ts.pendingScansMutex.Lock()
	defer ts.pendingScansMutex.Unlock()
	return len(ts.pendingScans)
}

// Lyric 返回已解析的歌词
func (ts *TaskScheduler) Lyric(path string) (*lrc.File, bool) {
	ts.filesMutex.RLock()
	defer ts.filesMutex.RUnlock()
	f, ok := ts.files[path]
	return f, ok
}

// LineAt 返回歌词文件在播放位置 t 正在显示的一行
func (ts *TaskScheduler) LineAt(path string, t time.Duration) (lrc.Line, bool) {
	f, ok := ts.Lyric(path)
	if !ok {
		return lrc.Line{}, false
	}
	return f.BeforeOrAt(t)
}

// performScan 解析并索引单个歌词文件；文件已删除时移除其索引
func (ts *TaskScheduler) performScan(path string) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		ts.remove(path)
		return
	}
	if err != nil {
		ts.logger.Printf("ERROR: Error reading %s: %v", path, err)
		return
	}

	indexed, err := ts.store.IsLyricIndexed(path, info.ModTime())
	if err != nil {
		ts.logger.Printf("ERROR: Error checking indexed status for %s: %v", path, err)
	}
	if _, cached := ts.Lyric(path); indexed && cached {
		ts.logger.Printf("  -> Lyric %s unchanged. Skipping.", path)
		return
	}

	lyric, err := ts.lyricScanner.ScanFile(path)
	if err != nil {
		ts.logger.Printf("ERROR: Error parsing lyric %s: %v", path, err)
		ts.remove(path)
		return
	}
	// 内存中的歌词始终与磁盘一致；索引写入失败时下次扫描会重试
	ts.filesMutex.Lock()
	ts.files[path] = lyric.File
	ts.filesMutex.Unlock()
	if err := ts.store.SaveLyric(lyric.Record()); err != nil {
		ts.logger.Printf("ERROR: Lyric %s parsed but not indexed: %v", path, err)
	}

	if n := lyric.File.Len(); n > 0 {
		ts.logger.Printf("  -> %s spans %s - %s", path,
			util.FormatTimestamp(lyric.File.At(0).Timestamp), util.FormatTimestamp(lyric.File.At(n-1).Timestamp))
	}
}

// Remove 取消待定的扫描并移除歌词文件的缓存与索引，用于文件被删除或重命名
func (ts *TaskScheduler) Remove(path string) {
	ts.cancelScan(path)
	ts.remove(path)
}

func (ts *TaskScheduler) remove(path string) {
	ts.filesMutex.Lock()
	delete(ts.files, path)
	ts.filesMutex.Unlock()
	if err := ts.store.DeleteLyric(path); err != nil {
		ts.logger.Printf("ERROR: %v", err)
	}
}
