package trailer

// Version identifies the revision of the indicator table. Bump it whenever an
// entry is added, removed or remapped, since source ids depend on the kinds emitted.
const Version = "2023.06.1"

// table maps lower-cased trailer labels, typos included, to the kinds they
// stand for. Kind order inside an entry is preserved on output.
var table = map[string][]Kind{
	"about-fscking-timed-by":                       {ReviewedBy},
	"accked-by":                                    {ReviewedBy},
	"aced-by":                                      {ReviewedBy},
	"ack":                                          {ReviewedBy},
	"ack-by":                                       {ReviewedBy},
	"ackde-by":                                     {ReviewedBy},
	"acked":                                        {ReviewedBy},
	"acked-and-reviewed":                           {ReviewedBy},
	"acked-and-reviewed-by":                        {ReviewedBy},
	"acked-and-tested-by":                          {ReviewedBy, TestedBy},
	"acked-b":                                      {ReviewedBy},
	"acked-by":                                     {ReviewedBy},
	"acked-by-stale-maintainer":                    {ReviewedBy},
	"acked-by-with-comments":                       {ReviewedBy},
	"acked-by-without-testing":                     {ReviewedBy},
	"acked-for-mfd-by":                             {ReviewedBy},
	"acked-for-now-by":                             {ReviewedBy},
	"acked-off-by":                                 {ReviewedBy},
	"acked-the-net-bits-by":                        {ReviewedBy},
	"acked-the-tulip-bit-by":                       {ReviewedBy},
	"acked-with-apologies-by":                      {ReviewedBy},
	"acked_by":                                     {ReviewedBy},
	"ackedby":                                      {ReviewedBy},
	"ackeded-by":                                   {ReviewedBy},
	"acknowledged-by":                              {ReviewedBy},
	"acted-by":                                     {ReviewedBy},
	"actually-written-by":                          {CoAuthoredBy},
	"additional-author":                            {CoAuthoredBy},
	"all-the-fault-of":                             {InformedBy},
	"also-analyzed-by":                             {ReviewedBy},
	"also-fixed-by":                                {CoAuthoredBy},
	"also-posted-by":                               {ReportedBy},
	"also-reported-and-tested-by":                  {ReportedBy, TestedBy},
	"also-reported-by":                             {ReportedBy},
	"also-spotted-by":                              {ReportedBy},
	"also-suggested-by":                            {ReviewedBy},
	"also-written-by":                              {CoAuthoredBy},
	"analysed-by":                                  {ReviewedBy},
	"analyzed-by":                                  {ReviewedBy},
	"aoled-by":                                     {ReviewedBy},
	"apology-from":                                 {InformedBy},
	"appreciated-by":                               {InformedBy},
	"approved":                                     {ApprovedBy},
	"approved-by":                                  {ApprovedBy},
	"architected-by":                               {InfluencedBy},
	"assisted-by":                                  {CoAuthoredBy},
	"badly-reviewed-by ":                           {ReviewedBy},
	"based-in-part-on-patch-by":                    {InfluencedBy},
	"based-on":                                     {InfluencedBy},
	"based-on-a-patch-by":                          {InfluencedBy},
	"based-on-code-by":                             {InfluencedBy},
	"based-on-code-from":                           {InfluencedBy},
	"based-on-comments-by":                         {InfluencedBy},
	"based-on-idea-by":                             {InfluencedBy},
	"based-on-original-patch-by":                   {InfluencedBy},
	"based-on-patch-by":                            {InfluencedBy},
	"based-on-patch-from":                          {InfluencedBy},
	"based-on-patches-by":                          {InfluencedBy},
	"based-on-similar-patches-by":                  {InfluencedBy},
	"based-on-suggestion-from":                     {InfluencedBy},
	"based-on-text-by":                             {InfluencedBy},
	"based-on-the-original-screenplay-by":          {InfluencedBy},
	"based-on-the-true-story-by":                   {InfluencedBy},
	"based-on-work-by":                             {InfluencedBy},
	"based-on-work-from":                           {InfluencedBy},
	"belatedly-acked-by":                           {ReviewedBy},
	"bisected-and-acked-by":                        {ReviewedBy},
	"bisected-and-analyzed-by":                     {ReviewedBy},
	"bisected-and-reported-by":                     {ReportedBy},
	"bisected-and-tested-by":                       {ReportedBy, TestedBy},
	"bisected-by":                                  {ReviewedBy},
	"bisected-reported-and-tested-by":              {ReviewedBy, TestedBy},
	"bitten-by-and-tested-by":                      {ReviewedBy, TestedBy},
	"bitterly-acked-by":                            {ReviewedBy},
	"blame-taken-by":                               {InformedBy},
	"bonus-points-awarded-by":                      {ReviewedBy},
	"boot-tested-by":                               {TestedBy},
	"brainstormed-with":                            {InfluencedBy},
	"broken-by":                                    {InformedBy},
	"bug-actually-spotted-by":                      {ReportedBy},
	"bug-fixed-by":                                 {ResolvedBy},
	"bug-found-by":                                 {ReportedBy},
	"bug-identified-by":                            {ReportedBy},
	"bug-reported-by":                              {ReportedBy},
	"bug-spotted-by":                               {ReportedBy},
	"build-fixes-from":                             {ResolvedBy},
	"build-tested-by":                              {TestedBy},
	"build-testing-by":                             {TestedBy},
	"catched-by-and-rightfully-ranted-at-by":       {ReportedBy},
	"caught-by":                                    {ReportedBy},
	"cause-discovered-by":                          {ReportedBy},
	"cautiously-acked-by":                          {ReviewedBy},
	"celebrated-by":                                {ReviewedBy},
	"changelog-cribbed-from":                       {InfluencedBy},
	"changelog-heavily-inspired-by":                {InfluencedBy},
	"chucked-on-by":                                {ReviewedBy},
	"cked-by":                                      {ReviewedBy},
	"cleaned-up-by":                                {CoAuthoredBy},
	"cleanups-from":                                {CoAuthoredBy},
	"co-author":                                    {CoAuthoredBy},
	"co-authored":                                  {CoAuthoredBy},
	"co-authored-by":                               {CoAuthoredBy},
	"co-debugged-by":                               {CoAuthoredBy},
	"co-developed-by":                              {CoAuthoredBy},
	"co-developed-with":                            {CoAuthoredBy},
	"committed":                                    {CommittedBy},
	"committed-by":                                 {CoAuthoredBy, CommittedBy},
	"compile-tested-by":                            {TestedBy},
	"compiled-by":                                  {TestedBy},
	"compiled-tested-by":                           {TestedBy},
	"complained-about-by":                          {ReportedBy},
	"conceptually-acked-by":                        {ReviewedBy},
	"confirmed-by":                                 {ReviewedBy},
	"confirms-rustys-story-ends-the-same-by":       {ReviewedBy},
	"contributors":                                 {CoAuthoredBy},
	"credit":                                       {CoAuthoredBy},
	"credit-to":                                    {CoAuthoredBy},
	"credits-by":                                   {ReviewedBy},
	"csigned-off-by":                               {CoAuthoredBy},
	"cut-and-paste-bug-by":                         {ReportedBy},
	"debuged-by":                                   {TestedBy},
	"debugged-and-acked-by":                        {ReviewedBy},
	"debugged-and-analyzed-by":                     {ReviewedBy, TestedBy},
	"debugged-and-tested-by":                       {ReviewedBy, TestedBy},
	"debugged-by":                                  {TestedBy},
	"deciphered-by":                                {TestedBy},
	"decoded-by":                                   {TestedBy},
	"delightedly-acked-by":                         {ReviewedBy},
	"demanded-by":                                  {ReportedBy},
	"derived-from-code-by":                         {CoAuthoredBy},
	"designed-by":                                  {InfluencedBy},
	"diagnoised-by":                                {TestedBy},
	"diagnosed-and-reported-by":                    {ReportedBy},
	"diagnosed-by":                                 {TestedBy},
	"discovered-and-analyzed-by":                   {ReportedBy},
	"discovered-by":                                {ReportedBy},
	"discussed-with":                               {CoAuthoredBy},
	"earlier-version-tested-by":                    {TestedBy},
	"embarrassingly-acked-by":                      {ReviewedBy},
	"emphatically-acked-by":                        {ReviewedBy},
	"encouraged-by":                                {InfluencedBy},
	"enthusiastically-acked-by":                    {ReviewedBy},
	"enthusiastically-supported-by":                {ReviewedBy},
	"evaluated-by":                                 {TestedBy},
	"eventually-typed-in-by":                       {ReportedBy},
	"eviewed-by":                                   {ReviewedBy},
	"explained-by":                                 {InfluencedBy},
	"fairly-blamed-by":                             {ReportedBy},
	"fine-by-me":                                   {ReviewedBy},
	"finished-by":                                  {CoAuthoredBy},
	"fix-creation-mandated-by":                     {ResolvedBy},
	"fix-proposed-by":                              {ResolvedBy},
	"fix-suggested-by":                             {ResolvedBy},
	"fixed-by":                                     {ResolvedBy},
	"fixes-from":                                   {ResolvedBy},
	"forwarded-by":                                 {InformedBy},
	"found-by":                                     {ReportedBy},
	"found-ok-by":                                  {TestedBy},
	"from":                                         {InformedBy},
	"grudgingly-acked-by":                          {ReviewedBy},
	"grumpily-reviewed-by":                         {ReviewedBy},
	"guess-its-ok-by":                              {ReviewedBy},
	"hella-acked-by":                               {ReviewedBy},
	"helped-by":                                    {CoAuthoredBy},
	"helped-out-by":                                {CoAuthoredBy},
	"hinted-by":                                    {InfluencedBy},
	"historical-research-by":                       {CoAuthoredBy},
	"humbly-acked-by":                              {ReviewedBy},
	"i-dont-see-any-problems-with-it":              {ReviewedBy},
	"idea-by":                                      {InfluencedBy},
	"idea-from":                                    {InfluencedBy},
	"identified-by":                                {ReportedBy},
	"improved-by":                                  {InfluencedBy},
	"improvements-by":                              {InfluencedBy},
	"includes-changes-by":                          {InfluencedBy},
	"initial-analysis-by":                          {CoAuthoredBy},
	"initial-author":                               {CoAuthoredBy},
	"initial-fix-by":                               {ResolvedBy},
	"initial-patch-by":                             {CoAuthoredBy},
	"initial-work-by":                              {CoAuthoredBy},
	"inspired-by":                                  {InfluencedBy},
	"inspired-by-patch-from":                       {InfluencedBy},
	"intermittently-reported-by":                   {ReportedBy},
	"investigated-by":                              {TestedBy},
	"lightly-tested-by":                            {TestedBy},
	"liked-by":                                     {ReviewedBy},
	"list-usage-fixed-by":                          {ResolvedBy},
	"looked-over-by":                               {ReviewedBy},
	"looks-good-to":                                {ReviewedBy},
	"looks-great-to":                               {ReviewedBy},
	"looks-ok-by":                                  {ReviewedBy},
	"looks-okay-to":                                {ReviewedBy},
	"looks-reasonable-to":                          {ReviewedBy},
	"makes-sense-to":                               {ReviewedBy},
	"makes-sparse-happy":                           {ReviewedBy},
	"maybe-reported-by":                            {ReportedBy},
	"mentored-by":                                  {InfluencedBy},
	"modified-and-reviewed-by":                     {ReviewedBy},
	"modified-by":                                  {CoAuthoredBy},
	"more-or-less-tested-by":                       {TestedBy},
	"most-definitely-acked-by":                     {ReviewedBy},
	"mostly-acked-by":                              {ReviewedBy},
	"much-requested-by":                            {ReportedBy},
	"nacked-by":                                    {ReviewedBy},
	"naked-by":                                     {ReviewedBy},
	"narrowed-down-by":                             {ReviewedBy},
	"niced-by":                                     {ReviewedBy},
	"no-objection-from-me-by":                      {ReviewedBy},
	"no-problems-with":                             {ReviewedBy},
	"not-nacked-by":                                {ReviewedBy},
	"noted-by":                                     {ReviewedBy},
	"noticed-and-acked-by":                         {ReviewedBy},
	"noticed-by":                                   {ReviewedBy},
	"okay-ished-by":                                {ReviewedBy},
	"oked-to-go-through-tracing-tree-by":           {ReviewedBy},
	"once-upon-a-time-reviewed-by":                 {ReviewedBy},
	"original-author":                              {CoAuthoredBy},
	"original-by":                                  {CoAuthoredBy},
	"original-from":                                {CoAuthoredBy},
	"original-idea-and-signed-off-by":              {CoAuthoredBy},
	"original-idea-by":                             {InfluencedBy},
	"original-patch-acked-by":                      {ReviewedBy},
	"original-patch-by":                            {CoAuthoredBy},
	"original-signed-off-by":                       {CoAuthoredBy},
	"original-version-by":                          {CoAuthoredBy},
	"originalauthor":                               {CoAuthoredBy},
	"originally-by":                                {CoAuthoredBy},
	"originally-from":                              {CoAuthoredBy},
	"originally-suggested-by":                      {InfluencedBy},
	"originally-written-by":                        {CoAuthoredBy},
	"origionally-authored-by":                      {CoAuthoredBy},
	"origionally-signed-off-by":                    {CoAuthoredBy},
	"partially-reviewed-by":                        {ReviewedBy},
	"partially-tested-by":                          {TestedBy},
	"partly-suggested-by":                          {CoAuthoredBy},
	"patch-by":                                     {CoAuthoredBy},
	"patch-fixed-up-by":                            {ResolvedBy},
	"patch-from":                                   {CoAuthoredBy},
	"patch-inspired-by":                            {InfluencedBy},
	"patch-originally-by":                          {CoAuthoredBy},
	"patch-updated-by":                             {CoAuthoredBy},
	"patiently-pointed-out-by":                     {ReportedBy},
	"pattern-pointed-out-by":                       {InfluencedBy},
	"performance-tested-by":                        {TestedBy},
	"pinpointed-by":                                {ReportedBy},
	"pointed-at-by":                                {ReportedBy},
	"pointed-out-and-tested-by":                    {ReportedBy, TestedBy},
	"proposed-by":                                  {ReportedBy},
	"pushed-by":                                    {CoAuthoredBy},
	"ranted-by":                                    {ReportedBy},
	"re-reported-by":                               {ReportedBy},
	"reasoning-sounds-sane-to":                     {ReviewedBy},
	"recalls-having-tested-once-upon-a-time-by":    {TestedBy},
	"received-from":                                {InformedBy},
	"recommended-by":                               {ReviewedBy},
	"reivewed-by":                                  {ReviewedBy},
	"reluctantly-acked-by":                         {ReviewedBy},
	"repored-and-bisected-by":                      {ReportedBy},
	"reporetd-by":                                  {ReportedBy},
	"reporeted-and-tested-by":                      {ReportedBy, TestedBy},
	"report-by":                                    {ReportedBy},
	"reportded-by":                                 {ReportedBy},
	"reported":                                     {ReportedBy},
	"reported--and-debugged-by":                    {ReportedBy, TestedBy},
	"reported-acked-and-tested-by":                 {ReportedBy, TestedBy},
	"reported-analyzed-and-tested-by":              {ReportedBy},
	"reported-and-acked-by":                        {ReviewedBy},
	"reported-and-bisected-and-tested-by":          {ReviewedBy, TestedBy},
	"reported-and-bisected-by":                     {ReportedBy},
	"reported-and-reviewed-and-tested-by":          {ReviewedBy, TestedBy},
	"reported-and-root-caused-by":                  {ReportedBy},
	"reported-and-suggested-by":                    {ReportedBy},
	"reported-and-test-by":                         {ReportedBy},
	"reported-and-tested-by":                       {TestedBy},
	"reported-any-tested-by":                       {TestedBy},
	"reported-bisected-and-tested-by":              {ReportedBy, TestedBy},
	"reported-bisected-and-tested-by-the-invaluable":{ReportedBy, TestedBy},
	"reported-bisected-tested-by":                  {ReportedBy, TestedBy},
	"reported-bistected-and-tested-by":             {ReportedBy, TestedBy},
	"reported-by":                                  {ReportedBy},
	"reported-by-and-tested-by":                    {ReportedBy, TestedBy},
	"reported-by-tested-by":                        {TestedBy},
	"reported-by-with-patch":                       {ReportedBy},
	"reported-debuged-tested-acked-by":             {TestedBy},
	"reported-off-by":                              {ReportedBy},
	"reported-requested-and-tested-by":             {ReportedBy, TestedBy},
	"reported-reviewed-and-acked-by":               {ReviewedBy},
	"reported-tested-and-acked-by":                 {ReviewedBy, TestedBy},
	"reported-tested-and-bisected-by":              {ReportedBy, TestedBy},
	"reported-tested-and-fixed-by":                 {CoAuthoredBy, ReportedBy, TestedBy},
	"reported-tested-by":                           {TestedBy},
	"reported_by":                                  {ReportedBy},
	"reportedy-and-tested-by":                      {ReportedBy, TestedBy},
	"reproduced-by":                                {TestedBy},
	"requested-and-acked-by":                       {ReviewedBy},
	"requested-and-tested-by":                      {TestedBy},
	"requested-by":                                 {ReportedBy},
	"researched-with":                              {CoAuthoredBy},
	"reveiewed-by":                                 {ReviewedBy},
	"review-by":                                    {ReviewedBy},
	"reviewd-by":                                   {ReviewedBy},
	"reviewed":                                     {ReviewedBy},
	"reviewed-and-tested-by":                       {ReviewedBy, TestedBy},
	"reviewed-and-wanted-by":                       {ReviewedBy},
	"reviewed-by":                                  {ReviewedBy},
	"reviewed-off-by":                              {ReviewedBy},
	"reviewed–by":                                  {ReviewedBy},
	"reviewer":                                     {ReviewedBy},
	"reviewws-by":                                  {ReviewedBy},
	"root-cause-analysis-by":                       {ReportedBy},
	"root-cause-found-by":                          {ReportedBy},
	"seconded-by":                                  {ReviewedBy},
	"seems-ok":                                     {ReviewedBy},
	"seems-reasonable-to":                          {ReviewedBy},
	"sefltests-acked-by":                           {ReviewedBy},
	"sent-by":                                      {InformedBy},
	"serial-parts-acked-by":                        {ReviewedBy},
	"siged-off-by":                                 {CoAuthoredBy},
	"sighed-off-by":                                {CoAuthoredBy},
	"signed":                                       {SignedOffBy},
	"signed-by":                                    {SignedOffBy},
	"signed-off":                                   {SignedOffBy},
	"signed-off-by":                                {CoAuthoredBy, SignedOffBy},
	"singend-off-by":                               {CoAuthoredBy},
	"slightly-grumpily-acked-by":                   {ReviewedBy},
	"smoke-tested-by":                              {TestedBy},
	"some-suggestions-by":                          {InfluencedBy},
	"spotted-by":                                   {ReportedBy},
	"submitted-by":                                 {CoAuthoredBy},
	"suggested-and-acked-by":                       {ReviewedBy},
	"suggested-and-reviewed-by":                    {ReviewedBy},
	"suggested-and-tested-by":                      {ReviewedBy, TestedBy},
	"suggested-by":                                 {ReviewedBy},
	"tested":                                       {TestedBy},
	"tested-and-acked-by":                          {TestedBy},
	"tested-and-bugfixed-by":                       {ResolvedBy, TestedBy},
	"tested-and-reported-by":                       {ReportedBy, TestedBy},
	"tested-by":                                    {TestedBy},
	"tested-off":                                   {TestedBy},
	"thanks-to":                                    {InfluencedBy, InformedBy},
	"to":                                           {InformedBy},
	"tracked-by":                                   {TestedBy},
	"tracked-down-by":                              {TestedBy},
	"was-acked-by":                                 {ReviewedBy},
	"weak-reviewed-by":                             {ReviewedBy},
	"workflow-found-ok-by":                         {ReviewedBy},
	"written-by":                                   {ReportedBy},
}
